// game.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements Game: the live state of a match between two
// players (Board, two Racks, a Bag, scores and move history) and the
// operations that advance or unwind it. PlayMove/UnplayLastMove follow
// original_source's gameplay.c play_move (placement updates the board,
// cross-sets and rack, draws replacement tiles, then flips turn; pass
// and exchange each bump the scoreless-turn counter) together with
// game.h's backup_game/unplay_last_move: a stack of snapshots pushed
// before every move while backup mode is on, so a simulator can play a
// line deep and then unwind it move by move without reconstructing the
// game from scratch. The struct shape is carried over from the
// teacher's own game.go.

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
	"fmt"
	"strings"
)

// MaxScorelessTurns is the number of consecutive zero-scoring turns
// (passes or exchanges) that end a game with no one out.
const MaxScorelessTurns = 6

// GameEndReason records why a finished Game ended.
type GameEndReason int

const (
	GameNotOver GameEndReason = iota
	GameEndStandard
	GameEndConsecutiveZeros
)

// BackupMode selects whether PlayMove pushes a snapshot onto the
// backup stack before applying a move. Simulation and inference runs
// turn this on so they can play a line and then unwind it; ordinary
// single-move play leaves it off to skip the copying cost.
type BackupMode int

const (
	BackupOff BackupMode = iota
	BackupOn
)

// MoveItem records one played move together with the rack the player
// held immediately before it, for display and post-mortem purposes.
type MoveItem struct {
	PlayerIndex int
	RackBefore  []MachineLetter
	Move        *Move
}

// gameBackup is a snapshot of everything PlayMove mutates, pushed onto
// Game.backups before a move is applied and popped by UnplayLastMove.
type gameBackup struct {
	board                Board
	racks                [2]Rack
	bag                  Bag
	scores               [2]int
	playerOnTurn         int
	consecutiveScoreless int
	endReason            GameEndReason
	moveListLen          int
}

// Game is a container for an in-progress game between two players.
type Game struct {
	PlayerNames          [2]string
	Scores               [2]int
	Board                *Board
	Racks                [2]Rack
	Bag                  *Bag
	MoveHistory          []*MoveItem
	KWG                  *KWG
	KLV                  *KLV
	LetterDist           *LetterDistribution
	PlayerOnTurn         int
	ConsecutiveScoreless int
	EndReason            GameEndReason
	Backup               BackupMode
	backups              []*gameBackup
}

// NewGame creates a fresh Game, draws both players' starting racks
// from a new Bag, and computes the initial cross-sets.
func NewGame(ld *LetterDistribution, kwg *KWG, klv *KLV, seed uint64) *Game {
	board := NewBoard()
	bag := NewBag(ld, seed)
	game := &Game{
		Board:       board,
		Bag:         bag,
		KWG:         kwg,
		KLV:         klv,
		LetterDist:  ld,
		MoveHistory: make([]*MoveItem, 0, 30),
	}
	game.Racks[0] = *NewRack(ld)
	game.Racks[1] = *NewRack(ld)
	game.Racks[0].Fill(bag, 0)
	game.Racks[1].Fill(bag, 1)
	GenAllCrossSets(kwg, ld, board)
	return game
}

// SetPlayerNames sets the names of the two players.
func (game *Game) SetPlayerNames(player0, player1 string) {
	game.PlayerNames[0] = player0
	game.PlayerNames[1] = player1
}

// IsOver returns true once EndReason has been set by a prior PlayMove.
func (game *Game) IsOver() bool {
	return game.EndReason != GameNotOver
}

// TilesRemaining returns the number of tiles left in the bag.
func (game *Game) TilesRemaining() int {
	return game.Bag.TileCount()
}

// ExchangeAllowed reports whether the current bag holds enough tiles
// for a legal exchange.
func (game *Game) ExchangeAllowed() bool {
	return game.Bag.ExchangeAllowed()
}

func (game *Game) snapshot() *gameBackup {
	return &gameBackup{
		board:                *game.Board,
		racks:                [2]Rack{*game.Racks[0].Clone(), *game.Racks[1].Clone()},
		bag:                  *game.Bag.Clone(),
		scores:               game.Scores,
		playerOnTurn:         game.PlayerOnTurn,
		consecutiveScoreless: game.ConsecutiveScoreless,
		endReason:            game.EndReason,
		moveListLen:          len(game.MoveHistory),
	}
}

// PlayMove applies move as the current player's turn: it updates the
// board and cross-sets for a placement, draws replacement tiles,
// updates scores, appends to the move history, and advances
// PlayerOnTurn. If Backup is BackupOn, a snapshot is pushed first so
// UnplayLastMove can restore it later.
func (game *Game) PlayMove(move *Move) {
	if game.Backup == BackupOn {
		game.backups = append(game.backups, game.snapshot())
	}
	player := game.PlayerOnTurn
	rack := &game.Racks[player]
	rackBefore := append([]MachineLetter(nil), rack.Letters()...)

	switch move.Type {
	case MoveTypePlacement:
		game.placeTiles(move, rack)
		UpdateCrossSetForMove(game.KWG, game.LetterDist, game.Board, move.Row, move.Col, move.Vertical, len(move.Tiles))
		game.ConsecutiveScoreless = 0
		game.Scores[player] += move.Score
		rack.Fill(game.Bag, player)
		if rack.IsEmpty() {
			game.Scores[player] += 2 * rackScore(game.LetterDist, &game.Racks[1-player])
			game.EndReason = GameEndStandard
		}
	case MoveTypePass:
		game.ConsecutiveScoreless++
	case MoveTypeExchange:
		for _, t := range move.Exchanged {
			rack.Remove(t)
		}
		rack.Fill(game.Bag, player)
		for _, t := range move.Exchanged {
			game.Bag.ReturnTile(t)
		}
		game.ConsecutiveScoreless++
	}

	if game.ConsecutiveScoreless == MaxScorelessTurns {
		game.Scores[0] -= rackScore(game.LetterDist, &game.Racks[0])
		game.Scores[1] -= rackScore(game.LetterDist, &game.Racks[1])
		game.EndReason = GameEndConsecutiveZeros
	}

	game.MoveHistory = append(game.MoveHistory, &MoveItem{
		PlayerIndex: player,
		RackBefore:  rackBefore,
		Move:        move,
	})

	if game.EndReason == GameNotOver {
		game.PlayerOnTurn = 1 - game.PlayerOnTurn
	}
}

// placeTiles writes a placement move's tiles onto the board and
// removes the newly placed (non-played-through) letters from rack.
func (game *Game) placeTiles(move *Move, rack *Rack) {
	row, col := move.Row, move.Col
	dr, dc := 0, 1
	if move.Vertical {
		dr, dc = 1, 0
	}
	for i, t := range move.Tiles {
		if t == PlayedThroughMarker {
			continue
		}
		r, c := row+dr*i, col+dc*i
		game.Board.SetLetter(r, c, t)
		rack.Remove(Unblank(t))
	}
}

// rackScore returns the point value of the tiles remaining in rack,
// used both for the standard end-of-game bonus/penalty and shared
// with the simulator's heuristic valuation.
func rackScore(ld *LetterDistribution, rack *Rack) int {
	total := 0
	for ml, n := range rack.Counts {
		total += ld.Score[ml] * n
	}
	return total
}

// UnplayLastMove restores the Game to the snapshot taken immediately
// before the most recent PlayMove. It is only valid when Backup is
// BackupOn and at least one move has been played since the backup
// stack was last emptied; calling it otherwise is a no-op.
func (game *Game) UnplayLastMove() bool {
	if len(game.backups) == 0 {
		return false
	}
	n := len(game.backups) - 1
	b := game.backups[n]
	game.backups = game.backups[:n]

	*game.Board = b.board
	game.Racks[0] = b.racks[0]
	game.Racks[1] = b.racks[1]
	*game.Bag = b.bag
	game.Scores = b.scores
	game.PlayerOnTurn = b.playerOnTurn
	game.ConsecutiveScoreless = b.consecutiveScoreless
	game.EndReason = b.endReason
	game.MoveHistory = game.MoveHistory[:b.moveListLen]
	return true
}

// BackupDepth returns the number of snapshots currently on the backup
// stack, i.e. how many moves UnplayLastMove can undo.
func (game *Game) BackupDepth() int {
	return len(game.backups)
}

// ClearBackups discards the entire backup stack without restoring
// anything, used once a simulated line has been fully scored and its
// intermediate states are no longer needed.
func (game *Game) ClearBackups() {
	game.backups = game.backups[:0]
}

// String returns a human-readable rendering of the game state.
func (game *Game) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v (%v : %v) %v\n",
		game.PlayerNames[0], game.Scores[0], game.Scores[1], game.PlayerNames[1]))
	sb.WriteString(game.Board.String(game.LetterDist))
	sb.WriteString(fmt.Sprintf("Rack 0: %v\n", game.Racks[0].String(game.LetterDist)))
	sb.WriteString(fmt.Sprintf("Rack 1: %v\n", game.Racks[1].String(game.LetterDist)))
	sb.WriteString(fmt.Sprintf("Bag: %v tiles left\n", game.Bag.TileCount()))
	for i, item := range game.MoveHistory {
		sb.WriteString(fmt.Sprintf("  %2d (P%d): %v\n", i+1, item.PlayerIndex+1, item.Move.String(game.LetterDist)))
	}
	return sb.String()
}
