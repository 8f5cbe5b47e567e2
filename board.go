// board.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the Board: a 15x15 grid of Squares carrying
// bonus multipliers plus, per square and per axis, a cross-set bitmask
// and cross-score used by the move generator to prune and score
// perpendicular words in a single pass. The bonus-square layout tables
// are kept verbatim from the teacher's board.go; the Square struct is
// redesigned around MachineLetter and the 2-axis/2-index cross-set
// pair described in original_source's board.h (get_cross_set/
// get_cross_score take a dir and a cross_set_index, since a game can
// be played with two different lexicons and needs independent cross
// information for each).

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
	"strings"
)

// BoardSize is the width and height of the board.
const BoardSize = 15

const zero = int('0')

// wordMultipliersStandard and letterMultipliersStandard lay out the
// standard 15x15 bonus squares, kept from the teacher's board.go.
var wordMultipliersStandard = [BoardSize]string{
	"311111131111113",
	"121111111111121",
	"112111111111211",
	"111211111112111",
	"111121111121111",
	"111111111111111",
	"111111111111111",
	"311111121111113",
	"111111111111111",
	"111111111111111",
	"111121111121111",
	"111211111112111",
	"112111111111211",
	"121111111111121",
	"311111131111113",
}

var letterMultipliersStandard = [BoardSize]string{
	"111211111112111",
	"111113111311111",
	"111111212111111",
	"211111121111112",
	"111111111111111",
	"131113111311131",
	"112111212111211",
	"111211111112111",
	"112111212111211",
	"131113111311131",
	"111111111111111",
	"211111121111112",
	"111111212111111",
	"111113111311111",
	"111211111112111",
}

// Direction indexes the two axes a word can run along.
type Direction int

const (
	Horizontal Direction = 0
	Vertical   Direction = 1
)

// Square is one cell of the board.
type Square struct {
	Letter           MachineLetter // EmptySquareMarker if unoccupied
	IsBlank          bool
	LetterMultiplier int
	WordMultiplier   int
	Anchor           [2]bool
	CrossSet         [2][2]uint64
	CrossScore       [2][2]int
}

// Board is the 15x15 grid of Squares, plus the bookkeeping the move
// generator needs: how many tiles are down, and whether the board is
// currently presented transposed (so the same across-the-row traversal
// code can also generate down-the-column plays).
type Board struct {
	Squares     [BoardSize][BoardSize]Square
	NumTiles    int
	Transposed  bool
}

// NewBoard allocates an empty standard board with its bonus squares
// initialized.
func NewBoard() *Board {
	board := &Board{}
	board.Reset()
	return board
}

// Reset clears the board back to empty, bonus squares intact.
func (board *Board) Reset() {
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			sq := &board.Squares[i][j]
			*sq = Square{
				Letter:           EmptySquareMarker,
				LetterMultiplier: int(letterMultipliersStandard[i][j]) - zero,
				WordMultiplier:   int(wordMultipliersStandard[i][j]) - zero,
			}
		}
	}
	board.NumTiles = 0
	board.Transposed = false
	board.UpdateAllAnchors()
}

// PosExists returns true if (row, col) is within the board.
func PosExists(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// StartSquare returns the center square, where the first play of a game
// must land.
func (board *Board) StartSquare() (int, int) {
	return BoardSize / 2, BoardSize / 2
}

// IsEmpty returns true if (row, col) holds no tile.
func (board *Board) IsEmpty(row, col int) bool {
	return board.Squares[row][col].Letter == EmptySquareMarker
}

// GetLetter returns the machine letter at (row, col), or
// EmptySquareMarker.
func (board *Board) GetLetter(row, col int) MachineLetter {
	return board.Squares[row][col].Letter
}

// SetLetter places ml at (row, col) and tracks the tile count.
func (board *Board) SetLetter(row, col int, ml MachineLetter) {
	sq := &board.Squares[row][col]
	wasEmpty := sq.Letter == EmptySquareMarker
	sq.Letter = Unblank(ml)
	sq.IsBlank = IsBlanked(ml)
	if wasEmpty {
		board.NumTiles++
	}
}

// ClearLetter empties (row, col) and tracks the tile count.
func (board *Board) ClearLetter(row, col int) {
	sq := &board.Squares[row][col]
	if sq.Letter != EmptySquareMarker {
		board.NumTiles--
	}
	sq.Letter = EmptySquareMarker
	sq.IsBlank = false
}

// LeftAndRightEmpty returns true if both the square to the left and the
// square to the right of (row, col) are empty or off the board. Used to
// quickly rule out anchors.
func (board *Board) LeftAndRightEmpty(row, col int) bool {
	if col > 0 && !board.IsEmpty(row, col-1) {
		return false
	}
	if col < BoardSize-1 && !board.IsEmpty(row, col+1) {
		return false
	}
	return true
}

// WordEdge walks from (row, col) in the given column direction (-1 or
// +1) while squares are occupied, returning the column of the last
// occupied square in that direction (or col itself, if the next square
// in that direction is empty or off the board).
func (board *Board) WordEdge(row, col, dir int) int {
	for PosExists(row, col+dir) && !board.IsEmpty(row, col+dir) {
		col += dir
	}
	return col
}

// UpdateAnchors recomputes whether (row, col) is an anchor square for
// each axis: empty, and adjacent (on any of its four sides) to a placed
// tile, or the board's start square if the board is still empty. Both
// axes get the same flag.
func (board *Board) UpdateAnchors(row, col int) {
	sq := &board.Squares[row][col]
	if !board.IsEmpty(row, col) {
		sq.Anchor[Horizontal] = false
		sq.Anchor[Vertical] = false
		return
	}
	if board.NumTiles == 0 {
		sr, sc := board.StartSquare()
		isStart := row == sr && col == sc
		sq.Anchor[Horizontal] = isStart
		sq.Anchor[Vertical] = isStart
		return
	}
	sq.Anchor[Horizontal] = board.hasOccupiedNeighbor(row, col, 0, 1) || board.hasOccupiedNeighbor(row, col, 0, -1) ||
		board.hasOccupiedNeighbor(row, col, 1, 0) || board.hasOccupiedNeighbor(row, col, -1, 0)
	sq.Anchor[Vertical] = sq.Anchor[Horizontal]
}

func (board *Board) hasOccupiedNeighbor(row, col, dr, dc int) bool {
	r, c := row+dr, col+dc
	return PosExists(r, c) && !board.IsEmpty(r, c)
}

// UpdateAllAnchors recomputes anchors for the whole board.
func (board *Board) UpdateAllAnchors() {
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			board.UpdateAnchors(i, j)
		}
	}
}

// IsAnchor returns true if (row, col) is an anchor square for dir.
func (board *Board) IsAnchor(row, col int, dir Direction) bool {
	return board.Squares[row][col].Anchor[dir]
}

// SetCrossSet stores the cross-set bitmask for (row, col) on the given
// axis and lexicon index.
func (board *Board) SetCrossSet(row, col int, dir Direction, crossIndex int, set uint64) {
	board.Squares[row][col].CrossSet[dir][crossIndex] = set
}

// GetCrossSet returns the cross-set bitmask for (row, col).
func (board *Board) GetCrossSet(row, col int, dir Direction, crossIndex int) uint64 {
	return board.Squares[row][col].CrossSet[dir][crossIndex]
}

// SetCrossScore stores the cross-score for (row, col) on the given axis
// and lexicon index: the score contributed by tiles already
// perpendicular to this square, not counting the tile about to be
// placed here.
func (board *Board) SetCrossScore(row, col int, dir Direction, crossIndex int, score int) {
	board.Squares[row][col].CrossScore[dir][crossIndex] = score
}

// GetCrossScore returns the cross-score for (row, col).
func (board *Board) GetCrossScore(row, col int, dir Direction, crossIndex int) int {
	return board.Squares[row][col].CrossScore[dir][crossIndex]
}

// Allowed returns true if letter's bit is set in the cross-set bitmask.
func Allowed(crossSet uint64, letter MachineLetter) bool {
	return crossSet&(uint64(1)<<uint(letter)) != 0
}

// ClearAllCrosses resets every square's cross-sets to "anything goes"
// and cross-scores to zero, as when a lexicon changes or the board is
// reset.
func (board *Board) ClearAllCrosses(allLettersSet uint64) {
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			sq := &board.Squares[i][j]
			sq.CrossSet[Horizontal][0] = allLettersSet
			sq.CrossSet[Horizontal][1] = allLettersSet
			sq.CrossSet[Vertical][0] = allLettersSet
			sq.CrossSet[Vertical][1] = allLettersSet
			sq.CrossScore = [2][2]int{}
		}
	}
}

// Transpose flips the board across its main diagonal, used by the move
// generator to reuse its across-the-row code for down-the-column plays.
func (board *Board) Transpose() {
	for i := 0; i < BoardSize; i++ {
		for j := i + 1; j < BoardSize; j++ {
			board.Squares[i][j], board.Squares[j][i] = board.Squares[j][i], board.Squares[i][j]
		}
	}
	board.Transposed = !board.Transposed
}

// String renders the board as a grid of letters and dots, using ld to
// format occupied squares.
func (board *Board) String(ld *LetterDistribution) string {
	var sb strings.Builder
	for i := 0; i < BoardSize; i++ {
		for j := 0; j < BoardSize; j++ {
			sq := &board.Squares[i][j]
			if sq.Letter == EmptySquareMarker {
				sb.WriteString(".")
				continue
			}
			ml := sq.Letter
			if sq.IsBlank {
				ml = Blanked(ml)
			}
			sb.WriteString(ld.MLToString(ml))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
