// kwg.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the KWG: a directed word graph encoded as a flat
// array of 32-bit packed nodes, replacing the teacher's byte-buffer DAWG
// (dawg.go) with its compressed multi-rune prefixes. Each KWG node packs
// one outgoing edge of the graph:
//
//	bits  0..5   tile   (6 bits): the machine letter labeling this edge
//	bits  6..27  arc    (22 bits): node index of the first edge of the
//	                     child reached by following this edge
//	bit   28     accept (1 bit): following this edge completes a word
//	bit   29     end    (1 bit): this is the last edge in its sibling list
//
// The Navigator-driven traversal in this file keeps the teacher's
// navigators.go vocabulary (IsAccepting/Accepts/Accept/PushEdge/PopEdge/
// Done, plus a resumable FromNode/FromEdge pair) but walks node indices
// over a flat []uint32 instead of byte offsets into a compressed buffer,
// since a KWG edge never spans more than one tile.

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
	"embed"
	"encoding/binary"
	"path/filepath"
)

//go:embed dicts/*.kwg
var kwgFS embed.FS

const (
	kwgTileBits   = 6
	kwgTileMask   = (1 << kwgTileBits) - 1
	kwgArcBits    = 22
	kwgArcMask    = (1 << kwgArcBits) - 1
	kwgAcceptBit  = 1 << 28
	kwgEndBit     = 1 << 29
	kwgArcShift   = kwgTileBits
	kwgRootOffset = 0
)

// KWG is a directed word graph: a lexicon encoded as a flat array of
// packed edges, indexed from a fixed root.
type KWG struct {
	nodes []uint32
	root  uint32
	ld    *LetterDistribution
	cc    *crossSetCache
}

// packKWGNode builds one packed node word; exposed for tests that build
// small hand-written graphs without going through a loader.
func packKWGNode(tile MachineLetter, arc uint32, accept, end bool) uint32 {
	n := uint32(tile) & kwgTileMask
	n |= (arc & kwgArcMask) << kwgArcShift
	if accept {
		n |= kwgAcceptBit
	}
	if end {
		n |= kwgEndBit
	}
	return n
}

// NewKWG builds a KWG directly from a node array and root index, mainly
// for tests and for lexicons assembled in memory.
func NewKWG(ld *LetterDistribution, nodes []uint32, root uint32) *KWG {
	return &KWG{nodes: nodes, root: root, ld: ld, cc: newCrossSetCache(crossSetCacheSize)}
}

// LoadKWG reads a KWG from its embedded binary form: a root index
// (uint32, little-endian) followed by the packed node array.
func LoadKWG(ld *LetterDistribution, fileName string) (*KWG, error) {
	data, err := kwgFS.ReadFile(filepath.Join("dicts", fileName))
	if err != nil {
		return nil, err
	}
	if len(data) < 4 {
		return nil, &EngineError{Kind: ErrMalformedCGP, Msg: "kwg file too short: " + fileName}
	}
	root := binary.LittleEndian.Uint32(data[0:4])
	rest := data[4:]
	nodes := make([]uint32, len(rest)/4)
	for i := range nodes {
		nodes[i] = binary.LittleEndian.Uint32(rest[i*4 : i*4+4])
	}
	return &KWG{nodes: nodes, root: root, ld: ld, cc: newCrossSetCache(crossSetCacheSize)}, nil
}

// RootNodeIndex returns the index of the first edge out of the graph's
// root.
func (kwg *KWG) RootNodeIndex() uint32 {
	return kwg.root
}

// Tile returns the machine letter labeling the edge at nodeIdx.
func (kwg *KWG) Tile(nodeIdx uint32) MachineLetter {
	return MachineLetter(kwg.nodes[nodeIdx] & kwgTileMask)
}

// Arc returns the node index of the first edge of the child reached by
// following the edge at nodeIdx. A return of 0 means "no children" (the
// edge at nodeIdx leads only to a dead end).
func (kwg *KWG) Arc(nodeIdx uint32) uint32 {
	return (kwg.nodes[nodeIdx] >> kwgArcShift) & kwgArcMask
}

// Accepts returns true if following the edge at nodeIdx completes a
// valid word.
func (kwg *KWG) Accepts(nodeIdx uint32) bool {
	return kwg.nodes[nodeIdx]&kwgAcceptBit != 0
}

// IsEnd returns true if the edge at nodeIdx is the last outgoing edge in
// its sibling list.
func (kwg *KWG) IsEnd(nodeIdx uint32) bool {
	return kwg.nodes[nodeIdx]&kwgEndBit != 0
}

// NextNodeIndex scans the sibling list starting at nodeIdx for an edge
// labeled tile, returning its arc (the child's first edge index) and
// whether it was found.
func (kwg *KWG) NextNodeIndex(nodeIdx uint32, tile MachineLetter) (uint32, bool) {
	idx := nodeIdx
	for {
		if kwg.Tile(idx) == tile {
			return kwg.Arc(idx), true
		}
		if kwg.IsEnd(idx) {
			return 0, false
		}
		idx++
	}
}

// InLetterSet returns true if tile labels some edge in the sibling list
// starting at nodeIdx whose traversal accepts (i.e. tile is a legal
// single-letter continuation, a complete word by itself, at this point
// in the graph).
func (kwg *KWG) InLetterSet(nodeIdx uint32, tile MachineLetter) bool {
	idx := nodeIdx
	for {
		if kwg.Tile(idx) == tile {
			return kwg.Accepts(idx)
		}
		if kwg.IsEnd(idx) {
			return false
		}
		idx++
	}
}

// LetterSet returns a bitmask, over machine letter indices, of every
// tile labeling an edge in the sibling list starting at nodeIdx, turning
// "which letters continue a word here" into a single word that
// intersects cleanly with a rack.
func (kwg *KWG) LetterSet(nodeIdx uint32) uint64 {
	var set uint64
	idx := nodeIdx
	for {
		set |= uint64(1) << uint(kwg.Tile(idx))
		if kwg.IsEnd(idx) {
			break
		}
		idx++
	}
	return set
}

// Find returns true if word is a complete, valid word in the graph.
func (kwg *KWG) Find(word []MachineLetter) bool {
	idx := kwg.root
	for i, tile := range word {
		if i == len(word)-1 {
			return kwg.InLetterSet(idx, tile)
		}
		next, ok := kwg.NextNodeIndex(idx, tile)
		if !ok {
			return false
		}
		idx = next
	}
	return len(word) == 0
}

// Navigate drives a traversal of the graph under the control of a
// Navigator, starting at the root.
func (kwg *KWG) Navigate(navigator Navigator) {
	var nav Navigation
	nav.Go(kwg, navigator)
}

// NavigateResumable is like Navigate, but Navigator.Accept() is given the
// node index needed to later Resume the traversal from that point.
func (kwg *KWG) NavigateResumable(navigator Navigator) {
	var nav Navigation
	nav.isResumable = true
	nav.Go(kwg, navigator)
}

// Resume continues a previously suspended traversal from nodeIdx, with
// matched holding the letters already consumed to reach it.
func (kwg *KWG) Resume(navigator Navigator, nodeIdx uint32, matched []MachineLetter) {
	var nav Navigation
	nav.isResumable = true
	nav.Resume(kwg, navigator, nodeIdx, matched)
}
