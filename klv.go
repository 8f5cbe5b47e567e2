// klv.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the KLV: a leave-value lookup table built over a
// KWG that indexes every possible rack leave (0 to RackSize-1 tiles,
// sorted ascending by machine letter with blanks first). Each edge of
// the indexing KWG carries, alongside its usual tile/arc/accept/end
// fields, a WordCount: the number of distinct leaves reachable through
// that edge's subtree, including one ending exactly at the edge itself.
// Walking a sorted leave's letters while accumulating the WordCounts of
// earlier siblings at each step produces a dense perfect-hash index into
// the parallel LeaveValues array - the classic technique for scoring a
// leave in O(leave length) without a hash map. original_source's
// klv.h documents the accessor surface (klv_get_word_count,
// klv_get_leave_value, klv_get_kwg) this is grounded on; the index walk
// itself is the standard indexed-word-graph perfect hash described
// alongside it, adapted here to the MachineLetter/KWG types already
// built for the dictionary.

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
	"encoding/binary"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
)

// KLV is a leave-value table: an indexing KWG over sorted rack leaves,
// plus a parallel WordCount array and a LeaveValues array. memo is nil
// on every KLV built by NewKLV/LoadKLV; only WithMemo's copy carries
// one, so ordinary move generation and simulation look up leave values
// directly while the inference engine's repeated-leave-heavy
// consistency check (inference.go) gets a memoized view.
type KLV struct {
	kwg         *KWG
	wordCounts  []uint32
	leaveValues []float32
	memo        *leaveValueMemo
}

// leaveValueMemo is a bounded LRU memo of sorted-leave pattern ->
// leave value, grounded on the same hashicorp/golang-lru/simplelru
// idiom as crossset.go's crossSetCache: the inference engine's
// per-candidate consistency test (inference.go isConsistent) runs the
// move generator over thousands of trial racks, and the generator
// evaluates many placements per rack whose leftover leaves repeat
// heavily within a single trial (e.g. several placements all leaving a
// single common tile), so memoizing KLV.LeaveValue avoids redundant
// perfect-hash walks.
type leaveValueMemo struct {
	mu  sync.Mutex
	lru *simplelru.LRU
}

func newLeaveValueMemo(size int) *leaveValueMemo {
	lru, _ := simplelru.NewLRU(size, nil)
	return &leaveValueMemo{lru: lru}
}

// WithMemo returns a shallow copy of klv with a fresh bounded
// leave-value memo attached, for callers (the inference engine) that
// will look up the same small set of leaves many times over.
func (klv *KLV) WithMemo(size int) *KLV {
	memoized := *klv
	memoized.memo = newLeaveValueMemo(size)
	return &memoized
}

func leaveMemoKey(leave []MachineLetter) string {
	var b strings.Builder
	for _, ml := range leave {
		b.WriteString(strconv.Itoa(int(ml)))
		b.WriteByte(',')
	}
	return b.String()
}

// NewKLV builds a KLV directly from its parts, mainly for tests.
func NewKLV(kwg *KWG, wordCounts []uint32, leaveValues []float32) *KLV {
	return &KLV{kwg: kwg, wordCounts: wordCounts, leaveValues: leaveValues}
}

// LoadKLV reads a KLV from its embedded binary form: the indexing KWG
// (as produced by LoadKWG's own format, length-prefixed), followed by a
// uint32 word-count array and a float32 leave-value array, both the
// same length as the KWG's node array.
func LoadKLV(ld *LetterDistribution, fileName string) (*KLV, error) {
	data, err := kwgFS.ReadFile(filepath.Join("dicts", fileName))
	if err != nil {
		return nil, err
	}
	if len(data) < 8 {
		return nil, &EngineError{Kind: ErrMalformedCGP, Msg: "klv file too short: " + fileName}
	}
	kwgNodeCount := binary.LittleEndian.Uint32(data[0:4])
	root := binary.LittleEndian.Uint32(data[4:8])
	offset := 8
	nodes := make([]uint32, kwgNodeCount)
	for i := range nodes {
		nodes[i] = binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4
	}
	wordCounts := make([]uint32, kwgNodeCount)
	for i := range wordCounts {
		wordCounts[i] = binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4
	}
	leaveValues := make([]float32, kwgNodeCount)
	for i := range leaveValues {
		bits := binary.LittleEndian.Uint32(data[offset : offset+4])
		leaveValues[i] = math.Float32frombits(bits)
		offset += 4
	}
	kwg := NewKWG(ld, nodes, root)
	return &KLV{kwg: kwg, wordCounts: wordCounts, leaveValues: leaveValues}, nil
}

// sortedLeave returns rack's tiles in ascending machine-letter order
// (blanks, at index 0, sort first), the order the indexing KWG expects.
func sortedLeave(rack *Rack) []MachineLetter {
	letters := rack.Letters()
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// index computes the perfect-hash index of a sorted leave, or false if
// the leave is not present in the indexing KWG (e.g. longer than the
// table was built for).
func (klv *KLV) index(leave []MachineLetter) (int, bool) {
	if len(leave) == 0 {
		return 0, true
	}
	kwg := klv.kwg
	nodeIdx := kwg.RootNodeIndex()
	index := 0
	for i, tile := range leave {
		idx := nodeIdx
		for kwg.Tile(idx) != tile {
			index += int(klv.wordCounts[idx])
			if kwg.IsEnd(idx) {
				return 0, false
			}
			idx++
		}
		if i == len(leave)-1 {
			if !kwg.Accepts(idx) {
				return 0, false
			}
			return index, true
		}
		if kwg.Accepts(idx) {
			index++
		}
		arc := kwg.Arc(idx)
		if arc == 0 {
			return 0, false
		}
		nodeIdx = arc
	}
	return index, true
}

// LeaveValue returns the equity value of holding rack's tiles as a
// leave after a play. Unknown leaves (longer than the table supports)
// score 0.
func (klv *KLV) LeaveValue(rack *Rack) float64 {
	leave := sortedLeave(rack)
	if klv.memo == nil {
		return klv.valueForSortedLeave(leave)
	}
	key := leaveMemoKey(leave)
	klv.memo.mu.Lock()
	defer klv.memo.mu.Unlock()
	if v, ok := klv.memo.lru.Get(key); ok {
		return v.(float64)
	}
	value := klv.valueForSortedLeave(leave)
	klv.memo.lru.Add(key, value)
	return value
}

func (klv *KLV) valueForSortedLeave(leave []MachineLetter) float64 {
	idx, ok := klv.index(leave)
	if !ok || idx >= len(klv.leaveValues) {
		return 0
	}
	return float64(klv.leaveValues[idx])
}

// LeaveValueForTiles is a convenience wrapper over a raw tile slice,
// used by the move generator while it still holds leave tiles as a
// slice rather than a Rack.
func (klv *KLV) LeaveValueForTiles(ld *LetterDistribution, tiles []MachineLetter) float64 {
	rack := NewRackFromLetters(ld, tiles)
	return klv.LeaveValue(rack)
}
