// move.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements Move and MoveList. A Move is a tagged union of
// Placement, Exchange and Pass, kept as a single struct (rather than the
// teacher's Move interface with PassMove/ExchangeMove/TileMove/FinalMove
// implementations) since the move generator and simulator construct and
// compare huge numbers of these per call and a flat struct avoids an
// interface allocation per candidate. MoveList is a bounded top-K
// min-heap on Equity via container/heap in Record-All mode, and tracks a
// single best move directly in Record-Best mode, grounded on
// original_source's move.h/move_gen.h distinction between
// insert_spare_move (heap) and insert_spare_move_top_equity (best-only).

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
	"container/heap"
	"fmt"
	"strings"
)

// MoveType distinguishes the three shapes a Move can take.
type MoveType int

const (
	MoveTypePlacement MoveType = iota
	MoveTypeExchange
	MoveTypePass
)

// Move is a tagged union covering every kind of turn a player can take.
// For a MoveTypePlacement, Tiles holds one entry per square from
// (Row,Col) extending len(Tiles) squares across, or down if Vertical;
// PlayedThroughMarker in Tiles means
// "a tile already on the board", so Tiles always spans the full word,
// not just the newly placed letters.
type Move struct {
	Type       MoveType
	Tiles      []MachineLetter // placement: full word, incl. played-through squares
	Row, Col   int             // placement: top-left square
	Vertical   bool            // placement: true if played down, false if across
	Score      int
	Equity     float64
	Exchanged  []MachineLetter // exchange: tiles returned to the bag
	TilesMoved int             // placement: count of tiles actually drawn from the rack
}

// NewPassMove builds a pass.
func NewPassMove() *Move {
	return &Move{Type: MoveTypePass}
}

// NewExchangeMove builds a tile exchange.
func NewExchangeMove(tiles []MachineLetter) *Move {
	return &Move{Type: MoveTypeExchange, Exchanged: tiles}
}

// NewPlacementMove builds a tile placement.
func NewPlacementMove(tiles []MachineLetter, row, col int, vertical bool, score int, equity float64) *Move {
	played := 0
	for _, t := range tiles {
		if t != PlayedThroughMarker {
			played++
		}
	}
	return &Move{
		Type:       MoveTypePlacement,
		Tiles:      tiles,
		Row:        row,
		Col:        col,
		Vertical:   vertical,
		Score:      score,
		Equity:     equity,
		TilesMoved: played,
	}
}

// String renders a move using ld's display forms, in the usual
// coordinate-prefixed notation (e.g. "8D HELLO").
func (m *Move) String(ld *LetterDistribution) string {
	switch m.Type {
	case MoveTypePass:
		return "(Pass)"
	case MoveTypeExchange:
		var sb strings.Builder
		sb.WriteString("(Exch ")
		for _, t := range m.Exchanged {
			sb.WriteString(ld.MLToString(t))
		}
		sb.WriteString(")")
		return sb.String()
	default:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%v%c ", m.Row+1, 'A'+rune(m.Col)))
		for _, t := range m.Tiles {
			if t == PlayedThroughMarker {
				sb.WriteString(".")
			} else {
				sb.WriteString(ld.MLToString(t))
			}
		}
		return sb.String()
	}
}

// Equals compares two moves for equality of their essential fields,
// used by the simulator's similar-play coalescing.
func (m *Move) Equals(other *Move) bool {
	if m.Type != other.Type {
		return false
	}
	switch m.Type {
	case MoveTypePass:
		return true
	case MoveTypeExchange:
		return rackKey(m.Exchanged) == rackKey(other.Exchanged)
	default:
		if m.Row != other.Row || m.Col != other.Col || m.Vertical != other.Vertical {
			return false
		}
		if len(m.Tiles) != len(other.Tiles) {
			return false
		}
		for i, t := range m.Tiles {
			if other.Tiles[i] != t {
				return false
			}
		}
		return true
	}
}

func rackKey(tiles []MachineLetter) string {
	counts := make([]int, 256)
	for _, t := range tiles {
		counts[t]++
	}
	var sb strings.Builder
	for ml, c := range counts {
		for i := 0; i < c; i++ {
			sb.WriteByte(byte(ml))
		}
	}
	return sb.String()
}

// moveHeap is a min-heap on Equity, so the lowest-equity move sits at
// the root and is the cheapest one to evict when the list overflows its
// capacity.
type moveHeap []*Move

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].Equity < h[j].Equity }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { *h = append(*h, x.(*Move)) }
func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MoveListMode selects whether a MoveList keeps every candidate move
// above its current floor (Record-All, bounded to Capacity) or tracks
// only the single best move seen (Record-Best), which skips the heap
// entirely during the move generator's hottest path.
type MoveListMode int

const (
	RecordAll MoveListMode = iota
	RecordBest
)

// MoveList accumulates candidate moves emitted by the move generator.
type MoveList struct {
	Mode     MoveListMode
	Capacity int
	heap     moveHeap
	best     *Move
}

// NewMoveList creates a MoveList with the given mode and, for
// Record-All, bounded capacity.
func NewMoveList(mode MoveListMode, capacity int) *MoveList {
	ml := &MoveList{Mode: mode, Capacity: capacity}
	if mode == RecordAll {
		ml.heap = make(moveHeap, 0, capacity)
		heap.Init(&ml.heap)
	}
	return ml
}

// Add offers a candidate move to the list. In Record-Best mode, it
// replaces the current best if move has strictly greater equity. In
// Record-All mode, it is inserted into the bounded min-heap, evicting
// the current lowest-equity move once the heap is at capacity and move
// beats it.
func (ml *MoveList) Add(move *Move) {
	if ml.Mode == RecordBest {
		if ml.best == nil || move.Equity > ml.best.Equity {
			ml.best = move
		}
		return
	}
	if len(ml.heap) < ml.Capacity {
		heap.Push(&ml.heap, move)
		return
	}
	if len(ml.heap) > 0 && move.Equity > ml.heap[0].Equity {
		ml.heap[0] = move
		heap.Fix(&ml.heap, 0)
	}
}

// Best returns the highest-equity move recorded, or nil if none.
func (ml *MoveList) Best() *Move {
	if ml.Mode == RecordBest {
		return ml.best
	}
	var best *Move
	for _, m := range ml.heap {
		if best == nil || m.Equity > best.Equity {
			best = m
		}
	}
	return best
}

// Sorted returns every recorded move ordered by descending equity. Only
// meaningful in Record-All mode.
func (ml *MoveList) Sorted() []*Move {
	moves := make([]*Move, len(ml.heap))
	copy(moves, ml.heap)
	for i := 1; i < len(moves); i++ {
		for j := i; j > 0 && moves[j].Equity > moves[j-1].Equity; j-- {
			moves[j], moves[j-1] = moves[j-1], moves[j]
		}
	}
	return moves
}

// Len returns the number of moves currently recorded.
func (ml *MoveList) Len() int {
	if ml.Mode == RecordBest {
		if ml.best == nil {
			return 0
		}
		return 1
	}
	return len(ml.heap)
}
