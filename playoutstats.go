// playoutstats.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements PlayoutStats, an aggregate counter for repeated
// robot-vs-robot autoplay games, used by the cmd/console autoplay loop.
// Grounded on original_source/core/src/ent/autoplay_results.h/.c
// (AutoplayResults: total games, p1 wins/losses/ties/firsts, and a Stat
// of each side's final score), adapted to this engine's Robot/Game/Stat
// types and mutex-guarded for concurrent autoplay workers the way
// threadcontrol.go's RunWorkerPool drives them.

/*

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.

*/

package xwcore

import "sync"

// PlayoutStats aggregates outcomes across repeated autoplay games
// between two robots, mirroring the original's AutoplayResults: total
// games played, player-one win/loss/tie/first-to-move counts, and a
// Stat of each player's final score across the batch.
type PlayoutStats struct {
	mu          sync.Mutex
	totalGames  int
	p1Wins      int
	p1Losses    int
	p1Ties      int
	p1Firsts    int
	p1ScoreStat *Stat
	p2ScoreStat *Stat
}

// NewPlayoutStats returns an empty aggregate.
func NewPlayoutStats() *PlayoutStats {
	return &PlayoutStats{p1ScoreStat: NewStat(), p2ScoreStat: NewStat()}
}

// RecordGame folds one finished game's outcome into the aggregate.
// p1Score and p2Score are player 0's and player 1's final scores;
// p1First reports whether player 0 held the first move.
func (p *PlayoutStats) RecordGame(p1Score, p2Score int, p1First bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalGames++
	switch {
	case p1Score > p2Score:
		p.p1Wins++
	case p1Score < p2Score:
		p.p1Losses++
	default:
		p.p1Ties++
	}
	if p1First {
		p.p1Firsts++
	}
	p.p1ScoreStat.Push(float64(p1Score))
	p.p2ScoreStat.Push(float64(p2Score))
}

// TotalGames returns the number of games folded in so far.
func (p *PlayoutStats) TotalGames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalGames
}

// Record returns the player-one win/loss/tie/first-move counts.
func (p *PlayoutStats) Record() (wins, losses, ties, firsts int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.p1Wins, p.p1Losses, p.p1Ties, p.p1Firsts
}

// ScoreStats returns snapshots of each player's final-score
// distribution across the batch.
func (p *PlayoutStats) ScoreStats() (p1, p2 Snapshot) {
	return p.p1ScoreStat.Snapshot(), p.p2ScoreStat.Snapshot()
}

// Add folds other's counts into p, for merging per-worker aggregates
// after a parallel autoplay batch (original's add_autoplay_results).
func (p *PlayoutStats) Add(other *PlayoutStats) {
	other.mu.Lock()
	totalGames, p1Wins, p1Losses, p1Ties, p1Firsts := other.totalGames, other.p1Wins, other.p1Losses, other.p1Ties, other.p1Firsts
	p1Scores := other.p1ScoreStat.Snapshot()
	p2Scores := other.p2ScoreStat.Snapshot()
	other.mu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalGames += totalGames
	p.p1Wins += p1Wins
	p.p1Losses += p1Losses
	p.p1Ties += p1Ties
	p.p1Firsts += p1Firsts
	// Score distributions are merged by pushing other's mean once per
	// game it recorded: the merged count and mean are exact, while the
	// merged variance and min/max leave out the spread of other's
	// scores.
	if p1Scores.N > 0 {
		for i := int64(0); i < p1Scores.N; i++ {
			p.p1ScoreStat.Push(p1Scores.Mean)
		}
	}
	if p2Scores.N > 0 {
		for i := int64(0); i < p2Scores.N; i++ {
			p.p2ScoreStat.Push(p2Scores.Mean)
		}
	}
}
