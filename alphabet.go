// alphabet.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the LetterDistribution: the alphabet, per-tile
// counts and scores, and the machine-letter <-> string conversions used
// throughout the rest of the package.

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
	"sort"
)

// MachineLetter is a small integer encoding of a tile. 0 is the blank;
// 1..Size-1 are concrete letters in alphabetical order. The high bit
// (BlankMask) marks a letter as having been played from a blank tile.
type MachineLetter uint8

// BlankMask is OR'd into a MachineLetter to indicate it was played from
// a blank tile.
const BlankMask MachineLetter = 0x80

// PlayedThroughMarker appears inside a Move's tile array to mean "use
// whatever letter is already on the board at this square."
const PlayedThroughMarker MachineLetter = 0xfe

// EmptySquareMarker marks an empty board square.
const EmptySquareMarker MachineLetter = 0xff

// Unblank strips the blank-played marker from a machine letter.
func Unblank(ml MachineLetter) MachineLetter {
	return ml &^ BlankMask
}

// Blanked sets the blank-played marker on a machine letter.
func Blanked(ml MachineLetter) MachineLetter {
	return ml | BlankMask
}

// IsBlanked returns true if ml was played from a blank tile.
func IsBlanked(ml MachineLetter) bool {
	return ml&BlankMask != 0
}

// LetterDistribution is the immutable, loaded description of one
// language's tile set: how many of each letter there are, how much each
// is worth, and how to print/parse them (including multi-byte tiles
// such as Icelandic "[L·L]" style digraphs, kept from the teacher's
// TileSet but generalized to arbitrary bracketed glyphs).
type LetterDistribution struct {
	Name  string
	Size  int // alphabet cardinality, including the blank at index 0
	Count []int
	Score []int
	Vowel []bool
	// ScoreOrder holds letter indices sorted by descending score,
	// ties broken by ascending index. Used by the shadow pass to
	// greedily assign the highest-scoring available tile.
	ScoreOrder []MachineLetter

	strToML map[string]MachineLetter
	mlToStr map[MachineLetter]string
}

// letterSpec describes one letter of a distribution before indices are
// assigned.
type letterSpec struct {
	Display string
	Count   int
	Score   int
	Vowel   bool
}

// NewLetterDistribution builds a LetterDistribution from an ordered list
// of letter specs. Index 0 is always the blank and must not be included
// in specs; it is added automatically with the given blankCount.
func NewLetterDistribution(name string, blankCount int, specs []letterSpec) *LetterDistribution {
	ld := &LetterDistribution{
		Name:    name,
		Size:    len(specs) + 1,
		strToML: make(map[string]MachineLetter),
		mlToStr: make(map[MachineLetter]string),
	}
	ld.Count = make([]int, ld.Size)
	ld.Score = make([]int, ld.Size)
	ld.Vowel = make([]bool, ld.Size)
	ld.Count[0] = blankCount
	ld.mlToStr[0] = "?"
	ld.strToML["?"] = 0
	for i, s := range specs {
		ml := MachineLetter(i + 1)
		ld.Count[ml] = s.Count
		ld.Score[ml] = s.Score
		ld.Vowel[ml] = s.Vowel
		ld.mlToStr[ml] = s.Display
		ld.strToML[s.Display] = ml
		// A blank played as this letter displays the same as the
		// letter itself.
		ld.mlToStr[Blanked(ml)] = s.Display
	}
	order := make([]MachineLetter, ld.Size)
	for i := range order {
		order[i] = MachineLetter(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ld.Score[order[i]] > ld.Score[order[j]]
	})
	ld.ScoreOrder = order
	return ld
}

// MLToString returns the display form of a machine letter.
func (ld *LetterDistribution) MLToString(ml MachineLetter) string {
	if s, ok := ld.mlToStr[ml]; ok {
		return s
	}
	return "?"
}

// StringToML returns the machine letter for a display tile string, and
// whether it was recognized.
func (ld *LetterDistribution) StringToML(s string) (MachineLetter, bool) {
	ml, ok := ld.strToML[s]
	return ml, ok
}

// ParseStr consumes a human-readable rack/word string into a slice of
// machine letters, honoring bracketed multi-byte tiles (e.g. "[CH]").
// Rules, per spec:
//  1. brackets may not nest
//  2. bracketed content must contain at least 2 letters
//  3. an unbracketed run is taken as the longest matching tile
//  4. an unrecognized glyph is an error
//  5. if allowPlaythrough, '.' becomes PlayedThroughMarker
func (ld *LetterDistribution) ParseStr(s string, allowPlaythrough bool) ([]MachineLetter, error) {
	runes := []rune(s)
	result := make([]MachineLetter, 0, len(runes))
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r == '[' {
			j := i + 1
			for j < len(runes) && runes[j] != '[' && runes[j] != ']' {
				j++
			}
			if j >= len(runes) || runes[j] != ']' {
				return nil, &EngineError{Kind: ErrInvalidLetters, Msg: "unterminated bracket in tile string"}
			}
			inner := string(runes[i+1 : j])
			if len([]rune(inner)) < 2 {
				return nil, &EngineError{Kind: ErrInvalidLetters, Msg: "bracketed tile must contain at least 2 letters: " + inner}
			}
			ml, ok := ld.strToML[inner]
			if !ok {
				return nil, &EngineError{Kind: ErrInvalidLetters, Msg: "unknown tile: [" + inner + "]"}
			}
			result = append(result, ml)
			i = j + 1
			continue
		}
		if allowPlaythrough && r == '.' {
			result = append(result, PlayedThroughMarker)
			i++
			continue
		}
		// Find the longest unbracketed match starting at i.
		matched := false
		for l := min(4, len(runes)-i); l >= 1; l-- {
			candidate := string(runes[i : i+l])
			if ml, ok := ld.strToML[candidate]; ok {
				result = append(result, ml)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			return nil, &EngineError{Kind: ErrInvalidLetters, Msg: "unrecognized glyph: " + string(r)}
		}
	}
	return result, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// initEnglishDistribution builds the standard English Scrabble letter
// distribution (100 tiles), grounded on the teacher's initEnglishTileSet.
func initEnglishDistribution() *LetterDistribution {
	specs := []letterSpec{
		{"A", 9, 1, true}, {"B", 2, 3, false}, {"C", 2, 3, false},
		{"D", 4, 2, false}, {"E", 12, 1, true}, {"F", 2, 4, false},
		{"G", 3, 2, false}, {"H", 2, 4, false}, {"I", 9, 1, true},
		{"J", 1, 8, false}, {"K", 1, 5, false}, {"L", 4, 1, false},
		{"M", 2, 3, false}, {"N", 6, 1, false}, {"O", 8, 1, true},
		{"P", 2, 3, false}, {"Q", 1, 10, false}, {"R", 6, 1, false},
		{"S", 4, 1, false}, {"T", 6, 1, false}, {"U", 4, 1, true},
		{"V", 2, 4, false}, {"W", 2, 4, false}, {"X", 1, 8, false},
		{"Y", 2, 4, false}, {"Z", 1, 10, false},
	}
	return NewLetterDistribution("english", 2, specs)
}

// EnglishDistribution is the standard English letter distribution.
var EnglishDistribution = initEnglishDistribution()
