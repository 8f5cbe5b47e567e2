// leavemap.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements LeaveMap, an incremental index into a per-rack
// cache of KLV leave values, grounded on original_source's
// leave_map.c/.h. Rather than re-running KLV.LeaveValue's sorted-leave
// perfect-hash walk from scratch for every candidate ending the move
// generator finds, each present rack letter is assigned a contiguous
// run of bits (one per unit of that letter held), and taking or adding
// back one instance of a letter just flips the bit for that occurrence
// level - exactly leave_map.c's take_letter/add_letter. The resulting
// small integer is a dense index into a per-navigator cache, so two
// candidate endings that leave the same rack behind (extremely common
// across the many placements explored from one anchor) share one KLV
// lookup instead of paying for it twice.
//
// This mirrors the push/pop-on-backtrack shape movegen.go's
// ExtendRightNavigator already uses for its own rack counts
// (PushEdge/PopEdge save and restore a snapshot rather than replaying
// inverse operations), so LeaveMap exposes CurrentIndex/Restore for the
// same snapshot style instead of leave_map.c's destroy/malloc pairing.

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

// LeaveMap maps "which occurrence-slots of the starting rack are still
// held" to a dense integer, and caches a KLV leave value per such
// index. It is scoped to one rack (one ExtendRightNavigator run); a
// fresh LeaveMap is built per Init call.
type LeaveMap struct {
	baseIndex []int // per machine-letter index; -1 if absent from the starting rack
	current   int
	cache     map[int]float64
}

// NewLeaveMap allocates a LeaveMap sized for an alphabet of alphaSize
// machine letters.
func NewLeaveMap(alphaSize int) *LeaveMap {
	return &LeaveMap{baseIndex: make([]int, alphaSize), cache: make(map[int]float64, 16)}
}

// Init resets the map for a fresh starting rack (per-letter counts),
// assigning each present letter a contiguous run of bits - one per unit
// held - and setting the current index to "every starting tile held".
func (lm *LeaveMap) Init(counts []int) {
	base := 0
	for i := range lm.baseIndex {
		lm.baseIndex[i] = -1
	}
	for ml, c := range counts {
		if c > 0 {
			lm.baseIndex[ml] = base
			base += c
		}
	}
	lm.current = (1 << uint(base)) - 1
	if len(lm.cache) > 0 {
		lm.cache = make(map[int]float64, 16)
	}
}

// TakeLetter clears the bit for one fewer unit of ml, given remaining -
// the count of ml left on the rack after the removal. Instances of a
// letter are always taken in the same order (highest remaining count
// first, since the move generator only ever removes from what it is
// currently holding), so the cleared bits always form the top of that
// letter's range: the set of bits still up for a letter is a direct,
// collision-free encoding of how many of it remain.
func (lm *LeaveMap) TakeLetter(ml MachineLetter, remaining int) {
	bit := lm.baseIndex[ml] + remaining
	lm.current &^= 1 << uint(bit)
}

// CurrentIndex returns the dense index for the rack's current state.
func (lm *LeaveMap) CurrentIndex() int {
	return lm.current
}

// Restore resets the current index directly, for backtracking to a
// previously observed state without replaying inverse Add/TakeLetter
// calls.
func (lm *LeaveMap) Restore(idx int) {
	lm.current = idx
}

// GetValue returns the cached leave value for idx, if one has been
// recorded.
func (lm *LeaveMap) GetValue(idx int) (float64, bool) {
	v, ok := lm.cache[idx]
	return v, ok
}

// SetValue records v as the leave value for idx.
func (lm *LeaveMap) SetValue(idx int, v float64) {
	lm.cache[idx] = v
}
