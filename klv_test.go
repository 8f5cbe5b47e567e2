// klv_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Builds a tiny hand-packed indexing KWG over two single-letter leaves
// (A -> 2.5, B -> -1.0) via packKWGNode/NewKLV, the same small-graph
// path those constructors exist for, and exercises LeaveValue's
// perfect-hash index walk plus the WithMemo memoization path used by
// the inference engine.

package xwcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestKLV() *KLV {
	const (
		a MachineLetter = 1
		b MachineLetter = 2
	)
	nodes := []uint32{
		packKWGNode(a, 0, true, false), // idx0: leave "A", perfect-hash index 0
		packKWGNode(b, 0, true, true),  // idx1: leave "B", perfect-hash index 1
	}
	wordCounts := []uint32{1, 1}
	leaveValues := []float32{2.5, -1.0}
	kwg := NewKWG(EnglishDistribution, nodes, 0)
	return NewKLV(kwg, wordCounts, leaveValues)
}

func TestKLVLeaveValue(t *testing.T) {
	klv := buildTestKLV()
	ld := EnglishDistribution

	rackA := NewRackFromLetters(ld, []MachineLetter{1})
	assert.InDelta(t, 2.5, klv.LeaveValue(rackA), 1e-9)

	rackB := NewRackFromLetters(ld, []MachineLetter{2})
	assert.InDelta(t, -1.0, klv.LeaveValue(rackB), 1e-9)

	// A leave the table was never built for (longer than any indexed
	// leave) falls back to 0 rather than panicking.
	rackAB := NewRackFromLetters(ld, []MachineLetter{1, 2})
	assert.Equal(t, float64(0), klv.LeaveValue(rackAB))
}

func TestKLVWithMemoIsStable(t *testing.T) {
	klv := buildTestKLV().WithMemo(8)
	ld := EnglishDistribution
	rackA := NewRackFromLetters(ld, []MachineLetter{1})

	first := klv.LeaveValue(rackA)
	require.InDelta(t, 2.5, first, 1e-9)

	for i := 0; i < 5; i++ {
		got := klv.LeaveValue(rackA)
		assert.Equal(t, first, got, "memoized LeaveValue should be stable across repeated lookups")
	}
}
