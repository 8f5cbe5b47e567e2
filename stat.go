// stat.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements Stat: a mutex-guarded Welford online mean/
// variance accumulator, the per-SimmedPlay statistic collector the
// simulator's workers insert equity, leftover and win% samples into
// after every iteration. Grounded on §5's "SimmedPlay: its Stats are
// accessed under a per-play mutex (insert at end of each iteration)"
// and on riddle.go's use of sync/atomic for cheap concurrent counters;
// a per-play mutex rather than atomics is called for here because each
// insert updates three correlated accumulators (mean, M2, count) at
// once.

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
	"math"
	"sync"
)

// Stat is a mutex-guarded Welford accumulator: mean and variance of a
// running sample, computed without storing the samples themselves.
type Stat struct {
	mu    sync.Mutex
	n     int64
	mean  float64
	m2    float64
	min   float64
	max   float64
}

// NewStat returns an empty Stat.
func NewStat() *Stat {
	return &Stat{min: math.Inf(1), max: math.Inf(-1)}
}

// Push inserts one sample, updating the running mean and variance.
func (s *Stat) Push(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	delta := x - s.mean
	s.mean += delta / float64(s.n)
	delta2 := x - s.mean
	s.m2 += delta * delta2
	if x < s.min {
		s.min = x
	}
	if x > s.max {
		s.max = x
	}
}

// PushWeighted inserts weight identical copies of x in one update,
// per original_source's push(stat, value, weight) - used where many
// draws share the same candidate value (inference's per-leave draw
// count) and replaying the update weight times would be wasteful.
func (s *Stat) PushWeighted(x float64, weight uint64) {
	if weight == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w := float64(weight)
	s.n += int64(weight)
	newN := float64(s.n)
	delta := x - s.mean
	s.mean += delta * w / newN
	delta2 := x - s.mean
	s.m2 += delta * delta2 * w
	if x < s.min {
		s.min = x
	}
	if x > s.max {
		s.max = x
	}
}

// Merge folds other's accumulated samples into s, per
// original_source's combine_stats: used to combine per-worker Stats
// after a parallel pass (inference's per-thread equity Stats) without
// replaying every individual sample through one accumulator.
func (s *Stat) Merge(other *Stat) {
	other.mu.Lock()
	on, omean, om2, omin, omax := other.n, other.mean, other.m2, other.min, other.max
	other.mu.Unlock()
	if on == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 {
		s.n, s.mean, s.m2, s.min, s.max = on, omean, om2, omin, omax
		return
	}
	n := s.n + on
	delta := omean - s.mean
	s.mean += delta * float64(on) / float64(n)
	s.m2 += om2 + delta*delta*float64(s.n)*float64(on)/float64(n)
	s.n = n
	if omin < s.min {
		s.min = omin
	}
	if omax > s.max {
		s.max = omax
	}
}

// N returns the number of samples pushed so far.
func (s *Stat) N() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

// Mean returns the running mean, or 0 if no samples have been pushed.
func (s *Stat) Mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mean
}

// Variance returns the running sample variance (Bessel-corrected), or
// 0 if fewer than two samples have been pushed.
func (s *Stat) Variance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n < 2 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

// StdDev returns the running sample standard deviation.
func (s *Stat) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean: StdDev / sqrt(N).
func (s *Stat) StdError() float64 {
	s.mu.Lock()
	n := s.n
	s.mu.Unlock()
	if n < 2 {
		return math.Inf(1)
	}
	return s.StdDev() / math.Sqrt(float64(n))
}

// MinMax returns the smallest and largest sample pushed so far.
func (s *Stat) MinMax() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min, s.max
}

// Snapshot is an immutable copy of a Stat's current values, safe to
// read and compare without holding any lock.
type Snapshot struct {
	N        int64
	Mean     float64
	StdDev   float64
	StdError float64
}

// Snapshot captures the Stat's current state as a value, for the
// stopping-condition check to sort and compare without re-locking per
// comparison.
func (s *Stat) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stdDev, stdErr float64
	if s.n >= 2 {
		stdDev = math.Sqrt(s.m2 / float64(s.n-1))
		stdErr = stdDev / math.Sqrt(float64(s.n))
	} else {
		stdErr = math.Inf(1)
	}
	return Snapshot{N: s.n, Mean: s.mean, StdDev: stdDev, StdError: stdErr}
}
