// rack.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the Rack: a fixed-length per-letter counter array
// rather than the teacher's slot array of Tile pointers, so that add,
// remove and hashing are all O(alphabet size) instead of involving a
// scan over Slots. The RackSize constant and the overall Fill/
// ReturnToBag vocabulary are kept from the teacher.

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

import "strings"

// RackSize is the number of tiles a player holds at once.
const RackSize = 7

// Rack is a fixed-length counter array over machine letters: Counts[ml]
// is how many of that letter (or, for index 0, blanks) the rack holds.
type Rack struct {
	Counts []int
	Size   int // current tile count, always <= RackSize
}

// NewRack allocates an empty Rack sized for ld's alphabet.
func NewRack(ld *LetterDistribution) *Rack {
	return &Rack{Counts: make([]int, ld.Size)}
}

// NewRackFromLetters builds a Rack from a slice of machine letters, as
// produced by LetterDistribution.ParseStr.
func NewRackFromLetters(ld *LetterDistribution, letters []MachineLetter) *Rack {
	rack := NewRack(ld)
	for _, ml := range letters {
		rack.Add(ml)
	}
	return rack
}

// Add places one tile of the given letter onto the rack. Blank tiles
// played from the bag are represented as index 0, never as a blanked
// concrete letter: a rack holds undesignated blanks.
func (rack *Rack) Add(ml MachineLetter) {
	rack.Counts[ml]++
	rack.Size++
}

// Remove takes one tile of the given letter off the rack. Returns false
// if the rack does not hold one.
func (rack *Rack) Remove(ml MachineLetter) bool {
	if rack.Counts[ml] <= 0 {
		return false
	}
	rack.Counts[ml]--
	rack.Size--
	return true
}

// Has returns true if the rack holds at least one of the given letter.
func (rack *Rack) Has(ml MachineLetter) bool {
	return int(ml) < len(rack.Counts) && rack.Counts[ml] > 0
}

// IsEmpty returns true if the rack holds no tiles.
func (rack *Rack) IsEmpty() bool {
	return rack.Size == 0
}

// NumBlanks returns how many undesignated blanks the rack holds.
func (rack *Rack) NumBlanks() int {
	return rack.Counts[0]
}

// Fill draws tiles from the bag to fill the rack, drawing for the given
// player side so a mirrored game draws from the opposite end. Returns
// false if it could not fill every empty slot (bag ran dry).
func (rack *Rack) Fill(bag *Bag, playerSide int) bool {
	for rack.Size < RackSize {
		ml, ok := bag.DrawRandom(playerSide)
		if !ok {
			return false
		}
		rack.Add(ml)
	}
	return true
}

// ReturnToBag empties the rack, returning every tile held to the bag.
func (rack *Rack) ReturnToBag(bag *Bag) {
	for ml, c := range rack.Counts {
		for i := 0; i < c; i++ {
			bag.ReturnTile(MachineLetter(ml))
		}
		rack.Counts[ml] = 0
	}
	rack.Size = 0
}

// Clone returns a deep, independent copy of the rack.
func (rack *Rack) Clone() *Rack {
	clone := &Rack{Counts: make([]int, len(rack.Counts)), Size: rack.Size}
	copy(clone.Counts, rack.Counts)
	return clone
}

// Letters expands the rack back out into a slice of machine letters, in
// ascending letter order (undesignated blanks first).
func (rack *Rack) Letters() []MachineLetter {
	letters := make([]MachineLetter, 0, rack.Size)
	for ml, c := range rack.Counts {
		for i := 0; i < c; i++ {
			letters = append(letters, MachineLetter(ml))
		}
	}
	return letters
}

// String renders the rack using ld's display forms.
func (rack *Rack) String(ld *LetterDistribution) string {
	var sb strings.Builder
	for _, ml := range rack.Letters() {
		sb.WriteString(ld.MLToString(ml))
	}
	return sb.String()
}

// Key returns a stable string identity for the rack's contents, usable
// as a map key (e.g. by the inference engine to dedupe equivalent
// leaves).
func (rack *Rack) Key() string {
	var sb strings.Builder
	for ml, c := range rack.Counts {
		for i := 0; i < c; i++ {
			sb.WriteByte(byte(ml))
		}
	}
	return sb.String()
}

// Equals compares two racks' contents for equality.
func (rack *Rack) Equals(other *Rack) bool {
	if rack.Size != other.Size || len(rack.Counts) != len(other.Counts) {
		return false
	}
	for i, c := range rack.Counts {
		if other.Counts[i] != c {
			return false
		}
	}
	return true
}
