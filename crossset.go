// crossset.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file computes cross-sets: for every empty square, the bitmask of
// letters that, if placed there, would keep the perpendicular word (if
// any) a valid dictionary word. Grounded on the teacher's dawg.go
// CrossSet/MatchNavigator approach (build the pattern "left?right" and
// collect the letters the wildcard matched) and on movegen.go's
// Axis.crossSet, generalized to walk the KWG directly with
// MachineLetter cross-words instead of constructing a rune pattern
// string per square. The bounded LRU memo is carried over verbatim in
// spirit from the teacher's own crossCache: a mutex-guarded
// hashicorp/golang-lru simplelru.LRU keyed on the perpendicular word
// pattern, since CGP-loaded positions and the simulator's repeated
// cross-set recomputation around the same squares both re-derive the
// identical (word, hole) pattern many times over. Unlike a single
// package-level cache, the LRU lives on the KWG itself (kwg.go's cc
// field), exactly like the teacher kept crossCache as a field of Dawg
// rather than a shared global: a process that loads two different
// lexicons must not let one lexicon's cached cross-set answer a query
// against the other.

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
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// crossSetCache is a bounded LRU memo of perpendicular-word pattern ->
// (cross-set bitmask, cross-score), grounded on the teacher's dawg.go
// crossCache.
type crossSetCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU
}

type crossSetCacheEntry struct {
	set   uint64
	score int
}

func newCrossSetCache(size int) *crossSetCache {
	lru, _ := simplelru.NewLRU(size, nil)
	return &crossSetCache{lru: lru}
}

func (c *crossSetCache) lookup(key string, fetch func() (uint64, int)) (uint64, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(key); ok {
		e := v.(crossSetCacheEntry)
		return e.set, e.score
	}
	set, score := fetch()
	c.lru.Add(key, crossSetCacheEntry{set: set, score: score})
	return set, score
}

// crossSetCacheSize matches the teacher's dawg.go crossCache capacity.
const crossSetCacheSize = 2048

// crossSetCacheKey builds a string key identifying a perpendicular word
// pattern: the hole position plus, for every other position, either a
// played-through marker or the machine letter index at that position.
// Two squares with the same pattern always have the same cross-set, so
// the key need not otherwise identify the square itself.
func crossSetCacheKey(word []MachineLetter, hole int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(hole))
	b.WriteByte(':')
	for i, ml := range word {
		if i == hole {
			b.WriteByte('_')
		} else if ml == PlayedThroughMarker {
			b.WriteByte('+')
		} else {
			b.WriteString(strconv.Itoa(int(ml)))
		}
		b.WriteByte(',')
	}
	return b.String()
}

// crossWord returns the run of machine letters perpendicular to (row,
// col) on the given axis: the tiles immediately above and below (or
// left and right) of (row, col), with a placeholder at (row, col)
// itself. With no tile on either side the result is the placeholder
// alone, a one-element slice.
func crossWord(board *Board, row, col int, dir Direction) (word []MachineLetter, holeIndex int) {
	dr, dc := 0, 0
	if dir == Horizontal {
		dr = 1
	} else {
		dc = 1
	}
	r, c := row-dr, col-dc
	for PosExists(r, c) && !board.IsEmpty(r, c) {
		r -= dr
		c -= dc
	}
	r += dr
	c += dc
	start := r
	startC := c
	for PosExists(r, c) {
		if r == row && c == col {
			word = append(word, PlayedThroughMarker)
		} else if board.IsEmpty(r, c) {
			break
		} else {
			word = append(word, board.GetLetter(r, c))
		}
		r += dr
		c += dc
	}
	holeIndex = (row-start)*boolToInt(dr != 0) + (col-startC)*boolToInt(dc != 0)
	return word, holeIndex
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// genCrossSet computes the cross-set bitmask and cross-score for one
// square on one axis: every letter that, substituted for the hole in
// the perpendicular word, yields a word found in kwg. An empty
// perpendicular run (no neighboring tiles) allows every letter and
// contributes no cross-score.
func genCrossSet(kwg *KWG, ld *LetterDistribution, board *Board, row, col int, dir Direction) (uint64, int) {
	word, hole := crossWord(board, row, col, dir)
	if len(word) == 1 {
		// No neighboring tile on this axis: every letter allowed.
		return allLettersSet(ld), 0
	}
	score := 0
	for _, ml := range word {
		if ml != PlayedThroughMarker {
			score += ld.Score[Unblank(ml)]
		}
	}
	key := crossSetCacheKey(word, hole)
	return kwg.cc.lookup(key, func() (uint64, int) {
		var set uint64
		for ml := 0; ml < ld.Size; ml++ {
			word[hole] = MachineLetter(ml)
			if kwg.Find(word) {
				set |= uint64(1) << uint(ml)
			}
		}
		return set, score
	})
}

// allLettersSet returns a bitmask with every letter of ld's alphabet
// set, used when a square has no perpendicular constraint.
func allLettersSet(ld *LetterDistribution) uint64 {
	var set uint64
	for ml := 0; ml < ld.Size; ml++ {
		set |= uint64(1) << uint(ml)
	}
	return set
}

// GenAllCrossSets recomputes every square's cross-sets and cross-scores
// for both axes, against a single lexicon (crossIndex 0). Called after
// Reset and after every tile placement/removal.
func GenAllCrossSets(kwg *KWG, ld *LetterDistribution, board *Board) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if !board.IsEmpty(row, col) {
				continue
			}
			hset, hscore := genCrossSet(kwg, ld, board, row, col, Horizontal)
			board.SetCrossSet(row, col, Horizontal, 0, hset)
			board.SetCrossScore(row, col, Horizontal, 0, hscore)
			vset, vscore := genCrossSet(kwg, ld, board, row, col, Vertical)
			board.SetCrossSet(row, col, Vertical, 0, vset)
			board.SetCrossScore(row, col, Vertical, 0, vscore)
		}
	}
	board.UpdateAllAnchors()
}

// debugVerifyBoardConsistency is a Debug-only check of §7's cross-set
// and anchor consistency invariants: it recomputes every square's
// cross-set, cross-score and anchor flags from scratch on a private
// clone of board and asserts the result matches board exactly. Called
// after every incremental update so a touched-squares bug in
// UpdateCrossSetForMove is caught the moment it happens rather than
// surfacing later as a wrong move. A no-op unless Debug is set.
func debugVerifyBoardConsistency(kwg *KWG, ld *LetterDistribution, board *Board) {
	if !Debug {
		return
	}
	check := *board
	GenAllCrossSets(kwg, ld, &check)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			for _, dir := range []Direction{Horizontal, Vertical} {
				gotSet, wantSet := board.GetCrossSet(row, col, dir, 0), check.GetCrossSet(row, col, dir, 0)
				debugAssert(gotSet == wantSet, "cross-set mismatch at (%d,%d) dir=%v: got=%x want=%x", row, col, dir, gotSet, wantSet)
				gotScore, wantScore := board.GetCrossScore(row, col, dir, 0), check.GetCrossScore(row, col, dir, 0)
				debugAssert(gotScore == wantScore, "cross-score mismatch at (%d,%d) dir=%v: got=%d want=%d", row, col, dir, gotScore, wantScore)
				gotAnchor, wantAnchor := board.IsAnchor(row, col, dir), check.IsAnchor(row, col, dir)
				debugAssert(gotAnchor == wantAnchor, "anchor mismatch at (%d,%d) dir=%v: got=%v want=%v", row, col, dir, gotAnchor, wantAnchor)
			}
		}
	}
}

// UpdateCrossSetForMove recomputes cross-sets only in the vicinity of a
// just-applied placement move, touched squares plus their immediate
// perpendicular neighbors, instead of the whole board.
func UpdateCrossSetForMove(kwg *KWG, ld *LetterDistribution, board *Board, row, col int, vertical bool, length int) {
	dr, dc := 0, 1
	if vertical {
		dr, dc = 1, 0
	}
	for i := -1; i <= length; i++ {
		r, c := row+dr*i, col+dc*i
		if !PosExists(r, c) {
			continue
		}
		// Recompute the square itself (if empty) and its immediate
		// perpendicular neighbors, on both axes.
		for _, pos := range [][2]int{{r, c}, {r - dc, c - dr}, {r + dc, c + dr}} {
			pr, pc := pos[0], pos[1]
			if !PosExists(pr, pc) || !board.IsEmpty(pr, pc) {
				continue
			}
			hset, hscore := genCrossSet(kwg, ld, board, pr, pc, Horizontal)
			board.SetCrossSet(pr, pc, Horizontal, 0, hset)
			board.SetCrossScore(pr, pc, Horizontal, 0, hscore)
			vset, vscore := genCrossSet(kwg, ld, board, pr, pc, Vertical)
			board.SetCrossSet(pr, pc, Vertical, 0, vset)
			board.SetCrossScore(pr, pc, Vertical, 0, vscore)
		}
	}
	board.UpdateAllAnchors()
	debugVerifyBoardConsistency(kwg, ld, board)
}
