// stat_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

package xwcore

import (
	"math"
	"testing"
)

func TestStatMeanAndVariance(t *testing.T) {
	s := NewStat()
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(x)
	}
	if s.N() != 8 {
		t.Fatalf("expected 8 samples, got %d", s.N())
	}
	if math.Abs(s.Mean()-5.0) > 1e-9 {
		t.Errorf("expected mean 5.0, got %v", s.Mean())
	}
	if math.Abs(s.Variance()-4.571428571428571) > 1e-6 {
		t.Errorf("expected sample variance ~4.571, got %v", s.Variance())
	}
	min, max := s.MinMax()
	if min != 2 || max != 9 {
		t.Errorf("expected min/max 2/9, got %v/%v", min, max)
	}
}

func TestStatSnapshotMatchesAccumulator(t *testing.T) {
	s := NewStat()
	s.Push(1)
	s.Push(3)
	snap := s.Snapshot()
	if snap.N != s.N() || math.Abs(snap.Mean-s.Mean()) > 1e-9 {
		t.Errorf("snapshot should mirror the live accumulator: %+v", snap)
	}
}

func TestStatStdErrorBeforeTwoSamples(t *testing.T) {
	s := NewStat()
	if !math.IsInf(s.StdError(), 1) {
		t.Errorf("StdError with fewer than two samples should be +Inf")
	}
	s.Push(1)
	if !math.IsInf(s.StdError(), 1) {
		t.Errorf("StdError with exactly one sample should still be +Inf")
	}
}
