// navigators.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file contains the Navigator interface and the traversal engine
// that drives it over a KWG, plus several navigators: finding a word,
// finding permutations of a rack, matching a pattern, and finding left
// parts (prefixes) of a rack for move generation. The interface and the
// overall recursive Go/FromNode/FromEdge structure are kept from the
// teacher's DAWG-based navigators.go; the state being walked is now a
// KWG node index and the symbols are MachineLetter instead of rune,
// since a KWG edge is always exactly one tile.

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

// Navigator describes the callbacks that control a traversal of a KWG.
type Navigator interface {
	IsAccepting() bool
	Accepts(tile MachineLetter) bool
	Accept(matched []MachineLetter, final bool, nodeIdx uint32)
	PushEdge(tile MachineLetter) bool
	PopEdge() bool
	Done()
}

// Navigation holds the state of one traversal of a KWG.
type Navigation struct {
	kwg         *KWG
	navigator   Navigator
	isResumable bool
}

// FromNode walks the sibling list of edges starting at nodeIdx,
// entering each one the navigator accepts via PushEdge.
func (nav *Navigation) FromNode(nodeIdx uint32, matched []MachineLetter) {
	kwg := nav.kwg
	idx := nodeIdx
	for {
		tile := kwg.Tile(idx)
		if nav.navigator.PushEdge(tile) {
			nav.FromEdge(idx, matched)
			if !nav.navigator.PopEdge() {
				break
			}
		}
		if kwg.IsEnd(idx) {
			break
		}
		idx++
	}
}

// FromEdge consumes the single tile labeling the edge at nodeIdx and, if
// the navigator is still hungry and the edge has children, continues
// into them.
func (nav *Navigation) FromEdge(nodeIdx uint32, alreadyMatched []MachineLetter) {
	navigator := nav.navigator
	tile := nav.kwg.Tile(nodeIdx)
	if !navigator.IsAccepting() || !navigator.Accepts(tile) {
		return
	}
	matched := make([]MachineLetter, len(alreadyMatched), len(alreadyMatched)+1)
	copy(matched, alreadyMatched)
	matched = append(matched, tile)
	final := nav.kwg.Accepts(nodeIdx)
	arc := nav.kwg.Arc(nodeIdx)
	if nav.isResumable {
		navigator.Accept(matched, final, arc)
	} else {
		navigator.Accept(matched, final, nodeIdx)
	}
	if arc != 0 && navigator.IsAccepting() {
		nav.FromNode(arc, matched)
	}
}

// Go starts a traversal of kwg under the control of navigator.
func (nav *Navigation) Go(kwg *KWG, navigator Navigator) {
	if nav == nil || kwg == nil || navigator == nil {
		return
	}
	nav.kwg = kwg
	nav.navigator = navigator
	if navigator.IsAccepting() {
		nav.FromNode(kwg.RootNodeIndex(), []MachineLetter{})
	}
	navigator.Done()
}

// Resume continues a previously suspended traversal from nodeIdx.
func (nav *Navigation) Resume(kwg *KWG, navigator Navigator, nodeIdx uint32, matched []MachineLetter) {
	if nav == nil || kwg == nil || navigator == nil {
		return
	}
	nav.kwg = kwg
	nav.navigator = navigator
	if nodeIdx != 0 && navigator.IsAccepting() {
		nav.FromNode(nodeIdx, matched)
	}
	navigator.Done()
}

// FindNavigator searches for one exact word.
type FindNavigator struct {
	word  []MachineLetter
	index int
	found bool
}

func (fn *FindNavigator) Init(word []MachineLetter) {
	fn.word = word
}

func (fn *FindNavigator) PushEdge(tile MachineLetter) bool {
	return fn.word[fn.index] == tile
}

func (fn *FindNavigator) PopEdge() bool {
	return false
}

func (fn *FindNavigator) Done() {}

func (fn *FindNavigator) IsAccepting() bool {
	return fn.index < len(fn.word)
}

func (fn *FindNavigator) Accepts(tile MachineLetter) bool {
	fn.index++
	return true
}

func (fn *FindNavigator) Accept(matched []MachineLetter, final bool, nodeIdx uint32) {
	if final && fn.index == len(fn.word) {
		fn.found = true
	}
}

// PermutationNavigator enumerates every full word that can be formed
// from the letters of a rack (blanks as index 0 match any letter).
type PermutationNavigator struct {
	rack    []int // per-letter remaining counts, index 0 = blank
	stack   [][]int
	results [][]MachineLetter
	minLen  int
}

func (pn *PermutationNavigator) Init(counts []int, minLen int) {
	pn.rack = make([]int, len(counts))
	copy(pn.rack, counts)
	pn.minLen = minLen
	pn.stack = make([][]int, 0, RackSize)
	pn.results = make([][]MachineLetter, 0)
}

func (pn *PermutationNavigator) hasBlank() bool {
	return pn.rack[0] > 0
}

func (pn *PermutationNavigator) PushEdge(tile MachineLetter) bool {
	if pn.rack[tile] <= 0 && !pn.hasBlank() {
		return false
	}
	saved := make([]int, len(pn.rack))
	copy(saved, pn.rack)
	pn.stack = append(pn.stack, saved)
	return true
}

func (pn *PermutationNavigator) PopEdge() bool {
	last := len(pn.stack) - 1
	pn.rack = pn.stack[last]
	pn.stack = pn.stack[:last]
	return true
}

func (pn *PermutationNavigator) Done() {}

func (pn *PermutationNavigator) IsAccepting() bool {
	for _, c := range pn.rack {
		if c > 0 {
			return true
		}
	}
	return false
}

func (pn *PermutationNavigator) Accepts(tile MachineLetter) bool {
	if pn.rack[tile] > 0 {
		pn.rack[tile]--
		return true
	}
	if pn.hasBlank() {
		pn.rack[0]--
		return true
	}
	return false
}

func (pn *PermutationNavigator) Accept(matched []MachineLetter, final bool, nodeIdx uint32) {
	if final && len(matched) >= pn.minLen {
		pn.results = append(pn.results, matched)
	}
}

// MatchNavigator returns every word matching a pattern, where
// PlayedThroughMarker in the pattern is a wildcard.
type MatchNavigator struct {
	pattern []MachineLetter
	index   int
	stack   []int
	results [][]MachineLetter
}

func (mn *MatchNavigator) Init(pattern []MachineLetter) {
	mn.pattern = pattern
	mn.stack = make([]int, 0, RackSize)
	mn.results = make([][]MachineLetter, 0, 16)
}

func (mn *MatchNavigator) isWildcard() bool {
	return mn.pattern[mn.index] == PlayedThroughMarker
}

func (mn *MatchNavigator) PushEdge(tile MachineLetter) bool {
	if tile != mn.pattern[mn.index] && !mn.isWildcard() {
		return false
	}
	mn.stack = append(mn.stack, mn.index)
	return true
}

func (mn *MatchNavigator) PopEdge() bool {
	last := len(mn.stack) - 1
	mn.index = mn.stack[last]
	mn.stack = mn.stack[:last]
	return mn.isWildcard()
}

func (mn *MatchNavigator) Done() {}

func (mn *MatchNavigator) IsAccepting() bool {
	return mn.index < len(mn.pattern)
}

func (mn *MatchNavigator) Accepts(tile MachineLetter) bool {
	if tile != mn.pattern[mn.index] && !mn.isWildcard() {
		return false
	}
	mn.index++
	return true
}

func (mn *MatchNavigator) Accept(matched []MachineLetter, final bool, nodeIdx uint32) {
	if final && mn.index == len(mn.pattern) {
		mn.results = append(mn.results, matched)
	}
}

// LeftFindNavigator walks to the node reached by a known prefix,
// saving the node index so a caller can continue the traversal from
// there (used to seed extend-right at an anchor).
type LeftFindNavigator struct {
	prefix  []MachineLetter
	index   int
	nodeIdx uint32
	found   bool
}

func (lfn *LeftFindNavigator) Init(prefix []MachineLetter) {
	lfn.prefix = prefix
}

func (lfn *LeftFindNavigator) PushEdge(tile MachineLetter) bool {
	return lfn.prefix[lfn.index] == tile
}

func (lfn *LeftFindNavigator) PopEdge() bool {
	return false
}

func (lfn *LeftFindNavigator) Done() {}

func (lfn *LeftFindNavigator) IsAccepting() bool {
	return lfn.index < len(lfn.prefix)
}

func (lfn *LeftFindNavigator) Accepts(tile MachineLetter) bool {
	lfn.index++
	return true
}

func (lfn *LeftFindNavigator) Accept(matched []MachineLetter, final bool, nodeIdx uint32) {
	if lfn.index == len(lfn.prefix) {
		lfn.nodeIdx = nodeIdx
		lfn.found = true
	}
}

// LeftPart records one way to lay letters from a rack to the left of an
// anchor square, and the KWG node index to resume from when extending
// to the right through the anchor.
type LeftPart struct {
	Matched []MachineLetter
	Counts  []int // remaining rack counts after taking Matched
	NodeIdx uint32
}

func (lp *LeftPart) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("LeftPart{matched=%v}", lp.Matched))
	return sb.String()
}

// LeftPermutationNavigator enumerates every left part (of length 1 up to
// rack size minus one, since one tile is reserved for the anchor
// square) that the rack can form, grouped by length. Run once per move
// generation pass.
type LeftPermutationNavigator struct {
	rack      []int
	stack     [][]int
	maxLeft   int
	leftParts [][]*LeftPart
}

func (lpn *LeftPermutationNavigator) Init(counts []int) {
	rackSize := 0
	for _, c := range counts {
		rackSize += c
	}
	lpn.rack = make([]int, len(counts))
	copy(lpn.rack, counts)
	if rackSize <= 1 {
		lpn.maxLeft = 0
	} else {
		lpn.maxLeft = rackSize - 1
	}
	lpn.stack = make([][]int, 0, 8)
	lpn.leftParts = make([][]*LeftPart, lpn.maxLeft)
	for i := range lpn.leftParts {
		lpn.leftParts[i] = make([]*LeftPart, 0, 8)
	}
}

// LeftParts returns the left parts of the given length (1-based).
func (lpn *LeftPermutationNavigator) LeftParts(length int) []*LeftPart {
	if length < 1 || length > lpn.maxLeft {
		return nil
	}
	return lpn.leftParts[length-1]
}

func (lpn *LeftPermutationNavigator) hasBlank() bool {
	return lpn.rack[0] > 0
}

func (lpn *LeftPermutationNavigator) PushEdge(tile MachineLetter) bool {
	if lpn.rack[tile] <= 0 && !lpn.hasBlank() {
		return false
	}
	saved := make([]int, len(lpn.rack))
	copy(saved, lpn.rack)
	lpn.stack = append(lpn.stack, saved)
	return true
}

func (lpn *LeftPermutationNavigator) PopEdge() bool {
	last := len(lpn.stack) - 1
	lpn.rack = lpn.stack[last]
	lpn.stack = lpn.stack[:last]
	return true
}

func (lpn *LeftPermutationNavigator) Done() {}

func (lpn *LeftPermutationNavigator) IsAccepting() bool {
	return lpn.depth() <= lpn.maxLeft
}

func (lpn *LeftPermutationNavigator) depth() int {
	return len(lpn.stack)
}

func (lpn *LeftPermutationNavigator) Accepts(tile MachineLetter) bool {
	if lpn.rack[tile] > 0 {
		lpn.rack[tile]--
		return true
	}
	if lpn.hasBlank() {
		lpn.rack[0]--
		return true
	}
	return false
}

func (lpn *LeftPermutationNavigator) Accept(matched []MachineLetter, final bool, nodeIdx uint32) {
	ix := len(matched) - 1
	if ix < 0 || ix >= len(lpn.leftParts) {
		return
	}
	counts := make([]int, len(lpn.rack))
	copy(counts, lpn.rack)
	lpn.leftParts[ix] = append(lpn.leftParts[ix], &LeftPart{
		Matched: matched,
		Counts:  counts,
		NodeIdx: nodeIdx,
	})
}

// FindLeftParts returns all left-part permutations the rack can form,
// grouped by length.
func FindLeftParts(kwg *KWG, counts []int) [][]*LeftPart {
	var lpn LeftPermutationNavigator
	lpn.Init(counts)
	kwg.NavigateResumable(&lpn)
	return lpn.leftParts
}
