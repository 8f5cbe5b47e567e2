// robot.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements Robot, a move-selection policy used by the
// console driver and by the simulator's opponent-reply plies
// (bestMoveFor in simulator.go calls the generator directly in
// Record-Best mode; Robot wraps the same call for a driver that wants
// to play a robot against itself turn by turn). Grounded on the
// teacher's robot.go Robot/RobotWrapper/HighScoreRobot, adapted from a
// Score-sorted move slice to this engine's equity-ranked MoveList.

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

// Robot picks one move to play out of a Game's current position.
type Robot interface {
	PickMove(game *Game) *Move
}

// EquityRobot always plays the move with the greatest equity (score +
// leave value, with the generator's own adjustments), found via a
// Record-Best generation pass. This is the simplest policy and the one
// the simulator itself uses for opponent replies.
type EquityRobot struct{}

// PickMove generates moves for the player on turn and returns the
// single highest-equity one.
func (r *EquityRobot) PickMove(game *Game) *Move {
	return bestMoveFor(game, game.PlayerOnTurn)
}

// HighScoreRobot picks the move with the greatest raw Score,
// disregarding leave value, falling back to an exchange (if allowed)
// or a pass when no tile placement is available. Grounded on the
// teacher's HighScoreRobot, which this policy is named for.
type HighScoreRobot struct{}

// PickMove generates a full Record-All move list for the player on
// turn and returns the highest-scoring placement, or an exchange, or a
// pass.
func (r *HighScoreRobot) PickMove(game *Game) *Move {
	player := game.PlayerOnTurn
	ml := NewMoveList(RecordAll, 64)
	GenerateMoves(game.KWG, game.KLV, game.Board, game.LetterDist, &game.Racks[player], game.Bag, &game.Racks[1-player], ml)

	var bestPlacement *Move
	for _, m := range ml.Sorted() {
		if m.Type == MoveTypePlacement && (bestPlacement == nil || m.Score > bestPlacement.Score) {
			bestPlacement = m
		}
	}
	if bestPlacement != nil {
		return bestPlacement
	}
	if game.Bag.ExchangeAllowed() {
		for _, m := range ml.Sorted() {
			if m.Type == MoveTypeExchange {
				return m
			}
		}
	}
	return NewPassMove()
}
