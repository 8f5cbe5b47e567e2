// simulator.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the Monte-Carlo simulator: given a Game
// snapshot and a shortlist of candidate plays, play each one out to a
// fixed ply depth many times over, using the move generator for both
// sides, and report aggregated win%/equity statistics per play.
// Grounded on §4.J/§5 (per-iteration procedure, dominance pruning,
// similar-play coalescing, per-SimmedPlay mutex, worker pool with a
// CAS-guarded single-checker gate) and on riddle.go's
// context+WaitGroup+atomic-counter worker-pool shape, generalized from
// a single shared counter into the full ThreadControl/Stat
// collaborators built for this purpose.

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

import (
	"math"
	"sort"
	"sync"

	"github.com/xskrafl/engine/internal/logging"
)

var simmerLog = logging.Get("simmer")

// StoppingCondition selects the confidence level used to prune
// dominated plays during simulation.
type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop95
	Stop98
	Stop99
)

// zValue returns the z-score corresponding to a StoppingCondition's
// confidence level, used in the μ0-σ0 > μi+σi dominance test.
func zValue(sc StoppingCondition) float64 {
	switch sc {
	case Stop95:
		return 1.96
	case Stop98:
		return 2.33
	case Stop99:
		return 2.58
	default:
		return 0
	}
}

// SimilarPlaysIterCutoff is the iteration count after which plays
// judged similar to the current leader are also ignored.
const SimilarPlaysIterCutoff = 1500

// PassMoveEquity is the equity assigned to a pass move inserted into a
// Record-All move list, deliberately low so it never masks a real
// candidate unless every real candidate is worse.
const PassMoveEquity = -1000.0

// SimmedPlay is one candidate play under simulation, together with its
// accumulated statistics across iterations. ScoreStat/BingoStat are
// indexed by ply (0..Plies-1) and track the score and bingo-or-not of
// the best reply found at that ply of the continuation, separately
// from Equity/Win/Leftover which summarize the whole iteration.
type SimmedPlay struct {
	Play       *Move
	Equity     *Stat
	Win        *Stat
	Leftover   *Stat
	ScoreStat  []*Stat
	BingoStat  []*Stat
	mu         sync.Mutex
	ignored    bool
	ignoredSet bool
}

// newSimmedPlay allocates a SimmedPlay with per-ply score/bingo Stats
// sized for plies.
func newSimmedPlay(move *Move, plies int) *SimmedPlay {
	sp := &SimmedPlay{
		Play:      move,
		Equity:    NewStat(),
		Win:       NewStat(),
		Leftover:  NewStat(),
		ScoreStat: make([]*Stat, plies),
		BingoStat: make([]*Stat, plies),
	}
	for i := 0; i < plies; i++ {
		sp.ScoreStat[i] = NewStat()
		sp.BingoStat[i] = NewStat()
	}
	return sp
}

// Ignore marks the play as no longer worth simulating further (it is
// dominated by the leader, or judged similar to it).
func (sp *SimmedPlay) Ignore() {
	sp.mu.Lock()
	sp.ignored = true
	sp.ignoredSet = true
	sp.mu.Unlock()
}

// IsIgnored reports whether the play has been marked ignored, reading
// the flag under the play's mutex.
func (sp *SimmedPlay) IsIgnored() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.ignored
}

// SimulatorParams configures one Simulate call.
type SimulatorParams struct {
	Plies                       int
	MaxIterations               int
	StoppingCondition           StoppingCondition
	NumThreads                  int
	Seed                        uint64
	KnownOppRack                *Rack // nil if the opponent's rack is unknown
	WinPctTable                 *WinPctTable
	PrintInfoInterval           int
	CheckStoppingConditionEvery int
}

// WinPctTable maps (spread rounded, tiles unseen) to a win probability
// in [0, 1], used to convert an end-of-simulation spread into a win%
// sample without playing out the rest of the game.
type WinPctTable struct {
	// table[tilesUnseen][spread-minSpread] = win probability.
	table     [][]float64
	minSpread int
	maxSpread int
}

// NewWinPctTable builds a table from a dense grid; rows index tiles
// unseen (0..len-1), columns index spread from minSpread to maxSpread
// inclusive.
func NewWinPctTable(rows [][]float64, minSpread, maxSpread int) *WinPctTable {
	return &WinPctTable{table: rows, minSpread: minSpread, maxSpread: maxSpread}
}

// Lookup returns the win probability for the given spread and tiles
// unseen, clamping the spread into the table's range and the tiles-
// unseen index into the table's row count.
func (t *WinPctTable) Lookup(spread, tilesUnseen int) float64 {
	if t == nil || len(t.table) == 0 {
		return 0.5
	}
	if tilesUnseen < 0 {
		tilesUnseen = 0
	}
	if tilesUnseen >= len(t.table) {
		tilesUnseen = len(t.table) - 1
	}
	row := t.table[tilesUnseen]
	if spread < t.minSpread {
		spread = t.minSpread
	}
	if spread > t.maxSpread {
		spread = t.maxSpread
	}
	idx := spread - t.minSpread
	if idx < 0 || idx >= len(row) {
		return 0.5
	}
	return row[idx]
}

// SimulatorResult is the final output of a Simulate call: the plays in
// descending mean-equity order, plus the total node count and the
// reason the run stopped.
type SimulatorResult struct {
	Plays     []*SimmedPlay
	NodeCount int64
	Halt      HaltReason
}

// Simulate runs the Monte-Carlo simulation described in §4.J. game is
// used only to read shared, read-only state (KWG/KLV/LetterDist); the
// live position simulated is the one already set on game (board,
// racks, bag, scores) at call time. candidates are the plays to
// evaluate, typically the generator's top-K output for the player on
// turn.
func Simulate(game *Game, candidates []*Move, params SimulatorParams, errStatus *ErrorStatus) *SimulatorResult {
	simmerLog.Infof("simulation starting: candidates=%d plies=%d threads=%d stopping=%v", len(candidates), params.Plies, params.NumThreads, params.StoppingCondition)
	plays := make([]*SimmedPlay, len(candidates))
	for i, m := range candidates {
		plays[i] = newSimmedPlay(m, params.Plies)
	}

	tc := NewThreadControl(0)
	initialSpread := game.Scores[game.PlayerOnTurn] - game.Scores[1-game.PlayerOnTurn]
	simPlayer := game.PlayerOnTurn

	numThreads := params.NumThreads
	if numThreads < 1 {
		numThreads = 1
	}

	tc.RunWorkerPool(numThreads, func(workerID int) {
		worker := cloneGameForWorker(game, params.Seed, workerID)
		for {
			select {
			case <-tc.Done():
				return
			default:
			}
			iter := tc.IncrementIterations()
			if params.MaxIterations > 0 && iter > int64(params.MaxIterations) {
				tc.Halt(HaltMaxIterations)
				return
			}
			if allIgnoredButOne(plays) {
				tc.Halt(HaltProbabilistic)
				return
			}
			runOneIteration(worker, simPlayer, plays, initialSpread, params, tc)

			if params.PrintInfoInterval > 0 && int(iter)%params.PrintInfoInterval == 0 {
				simmerLog.Infof("simulation progress: iteration=%d nodes=%d", iter, tc.NodeCount())
			}
			if simmerLog.IsEnabledFor(logging.DEBUG) {
				simmerLog.Debugf("simulation iteration=%d worker=%d", iter, workerID)
			}

			if params.CheckStoppingConditionEvery > 0 && int(iter)%params.CheckStoppingConditionEvery == 0 {
				if tc.TryBeginCheck() {
					applyStoppingCondition(plays, params.StoppingCondition, iter)
					tc.EndCheck()
				}
			}
		}
	})

	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Equity.Mean() > plays[j].Equity.Mean()
	})

	halt := tc.HaltReason()
	simmerLog.Infof("simulation stopped: reason=%v iterations=%d nodes=%d", halt, tc.Iterations(), tc.NodeCount())
	return &SimulatorResult{Plays: plays, NodeCount: tc.NodeCount(), Halt: halt}
}

// cloneGameForWorker deep-copies game for exclusive use by one worker
// and reseeds its bag's PRNG into a non-overlapping substream, per §5
// ("Worker-private: Each worker owns a deep clone of the Game... with
// independent PRNG").
func cloneGameForWorker(game *Game, seed uint64, workerID int) *Game {
	clone := &Game{
		Board:      &Board{},
		Bag:        game.Bag.Clone(),
		KWG:        game.KWG,
		KLV:        game.KLV,
		LetterDist: game.LetterDist,
		Backup:     BackupOn,
	}
	*clone.Board = *game.Board
	clone.Racks[0] = *game.Racks[0].Clone()
	clone.Racks[1] = *game.Racks[1].Clone()
	clone.Scores = game.Scores
	clone.PlayerOnTurn = game.PlayerOnTurn
	clone.ConsecutiveScoreless = game.ConsecutiveScoreless
	clone.EndReason = game.EndReason
	clone.Bag.SeedForWorker(seed, workerID)
	return clone
}

// runOneIteration plays one full Monte-Carlo sample: redraw the
// opponent's rack, play every un-ignored candidate plies deep, score
// the resulting spread/leftover/win%, and restore the game by
// unplaying every move the iteration played.
func runOneIteration(game *Game, simPlayer int, plays []*SimmedPlay, initialSpread int, params SimulatorParams, tc *ThreadControl) {
	oppPlayer := 1 - simPlayer
	redrawOpponentRack(game, oppPlayer, params.KnownOppRack)

	for _, sp := range plays {
		if sp.IsIgnored() {
			continue
		}
		game.PlayMove(sp.Play)
		tc.AddNodes(1)

		leftover := 0.0
		for p := 0; p < params.Plies && !game.IsOver(); p++ {
			mover := game.PlayerOnTurn
			best := bestMoveFor(game, mover)
			if best == nil {
				break
			}
			if p >= params.Plies-2 {
				leave := leaveAfterMove(game.LetterDist, &game.Racks[mover], best)
				lv := game.KLV.LeaveValue(leave)
				if mover == simPlayer {
					leftover += lv
				} else {
					leftover -= lv
				}
			}
			game.PlayMove(best)
			tc.AddNodes(1)
			sp.ScoreStat[p].Push(float64(best.Score))
			sp.BingoStat[p].Push(boolToFloat(best.TilesMoved == RackSize))
		}

		spread := game.Scores[simPlayer] - game.Scores[oppPlayer]
		equity := float64(spread-initialSpread) + leftover
		sp.Equity.Push(equity)
		sp.Leftover.Push(leftover)
		sp.Win.Push(sampleWinPct(game, simPlayer, spread, leftover, params.WinPctTable))

		for game.BackupDepth() > 0 {
			game.UnplayLastMove()
		}
	}
}

// boolToFloat converts a bingo-or-not flag into the 0/1 sample
// add_score_stat expects its BingoStat Push.
func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// redrawOpponentRack returns the opponent's current rack to the bag
// and draws a fresh one, honoring a known partial/full rack if
// supplied.
func redrawOpponentRack(game *Game, oppPlayer int, known *Rack) {
	game.Racks[oppPlayer].ReturnToBag(game.Bag)
	game.Bag.Shuffle()
	if known != nil {
		for ml, c := range known.Counts {
			for i := 0; i < c; i++ {
				if game.Bag.DrawSpecific(MachineLetter(ml), oppPlayer) {
					game.Racks[oppPlayer].Add(MachineLetter(ml))
				}
			}
		}
	}
	game.Racks[oppPlayer].Fill(game.Bag, oppPlayer)
}

// bestMoveFor generates and returns the single best move for the
// player on turn, in Record-Best mode.
func bestMoveFor(game *Game, player int) *Move {
	ml := NewMoveList(RecordBest, 1)
	GenerateMoves(game.KWG, game.KLV, game.Board, game.LetterDist, &game.Racks[player], game.Bag, &game.Racks[1-player], ml)
	return ml.Best()
}

// leaveAfterMove computes the rack that would remain after playing
// move from rack, without mutating rack.
func leaveAfterMove(ld *LetterDistribution, rack *Rack, move *Move) *Rack {
	remaining := rack.Clone()
	switch move.Type {
	case MoveTypePlacement:
		for _, t := range move.Tiles {
			if t != PlayedThroughMarker {
				remaining.Remove(Unblank(t))
			}
		}
	case MoveTypeExchange:
		for _, t := range move.Exchanged {
			remaining.Remove(t)
		}
	}
	return remaining
}

// sampleWinPct converts a terminal or in-progress spread into a win%
// sample, handling the end-of-game cases explicitly per §4.J before
// falling back to the win-percentage table.
func sampleWinPct(game *Game, simPlayer int, spread int, leftover float64, table *WinPctTable) float64 {
	if game.IsOver() {
		if spread > 0 {
			return 1.0
		}
		if spread < 0 {
			return 0.0
		}
		return 0.5
	}
	tilesUnseen := game.Bag.TileCount() + game.Racks[1-simPlayer].Size
	return table.Lookup(int(math.Round(float64(spread)+leftover)), tilesUnseen)
}

// allIgnoredButOne reports whether at most one play remains un-ignored,
// the simulator's early-termination condition.
func allIgnoredButOne(plays []*SimmedPlay) bool {
	remaining := 0
	for _, sp := range plays {
		if !sp.IsIgnored() {
			remaining++
			if remaining > 1 {
				return false
			}
		}
	}
	return true
}

// applyStoppingCondition implements §4.J's dominance + similarity
// pruning. It must only ever be run by one worker at a time (guarded
// by the caller's TryBeginCheck/EndCheck).
func applyStoppingCondition(plays []*SimmedPlay, sc StoppingCondition, iteration int64) {
	z := zValue(sc)
	if z == 0 {
		return
	}
	leader := leadingPlay(plays)
	if leader == nil {
		return
	}
	l := leader.Win.Snapshot()
	mu0, sigma0 := l.Mean, z*l.StdError
	for _, sp := range plays {
		if sp == leader || sp.IsIgnored() {
			continue
		}
		snap := sp.Win.Snapshot()
		sigmaI := z * snap.StdError
		debugAssert(sigma0 >= 0 && sigmaI >= 0, "negative confidence radius: sigma0=%.4f sigmaI=%.4f", sigma0, sigmaI)
		if mu0-sigma0 > snap.Mean+sigmaI {
			debugAssert(leader.Win.Mean() >= snap.Mean-1e-9, "dominance prune of %v whose mean %.4f exceeds leader's %.4f", sp.Play, snap.Mean, leader.Win.Mean())
			sp.Ignore()
			continue
		}
		if iteration > SimilarPlaysIterCutoff && movesSimilar(leader.Play, sp.Play) {
			sp.Ignore()
		}
	}
}

// leadingPlay returns the un-ignored play with the highest mean win%.
func leadingPlay(plays []*SimmedPlay) *SimmedPlay {
	var best *SimmedPlay
	var bestMean float64
	for _, sp := range plays {
		if sp.IsIgnored() {
			continue
		}
		m := sp.Win.Mean()
		if best == nil || m > bestMean {
			best, bestMean = sp, m
		}
	}
	return best
}

// movesSimilar implements §4.J's similarity test: same direction,
// start square, tiles-played count, tiles length, and multiset-equal
// tiles (blanks canonicalized to the blank index). Exchanges are never
// similar to placements or to a differently-sized exchange.
func movesSimilar(a, b *Move) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == MoveTypeExchange {
		return len(a.Exchanged) == len(b.Exchanged)
	}
	if a.Type != MoveTypePlacement {
		return false
	}
	if a.Row != b.Row || a.Col != b.Col || a.Vertical != b.Vertical {
		return false
	}
	if a.TilesMoved != b.TilesMoved || len(a.Tiles) != len(b.Tiles) {
		return false
	}
	var countsA, countsB [256]int
	for _, t := range a.Tiles {
		ml := Unblank(t)
		if t != PlayedThroughMarker && IsBlanked(t) {
			ml = 0
		}
		countsA[ml]++
	}
	for _, t := range b.Tiles {
		ml := Unblank(t)
		if t != PlayedThroughMarker && IsBlanked(t) {
			ml = 0
		}
		countsB[ml]++
	}
	return countsA == countsB
}
