// threadcontrol.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements ThreadControl: the halt/cancellation and
// progress-reporting collaborator shared by the simulator's and
// inference engine's worker pools. Grounded on §5's concurrency model
// (atomic halt reason, one pool per operation, workers checking
// is_halted only at iteration boundaries) and on riddle.go's
// context.WithTimeout + sync.WaitGroup + atomic-counter worker-pool
// idiom, generalized from a single atomic candidate counter into a
// small reusable controller both the simulator and the inference
// engine embed.

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
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MaxThreads bounds the number of worker goroutines a single
// simulate/infer call may request.
const MaxThreads = 512

// HaltReason records why a worker pool stopped.
type HaltReason int32

const (
	HaltNone HaltReason = iota
	HaltProbabilistic
	HaltMaxIterations
	HaltUserInterrupt
)

// ThreadControl coordinates a pool of simulate/infer workers: an
// atomic halt reason they poll at iteration boundaries, a node/
// iteration counter, a CAS-guarded "one worker runs the expensive
// check" gate, and a progress-reporting hook.
type ThreadControl struct {
	ctx    context.Context
	cancel context.CancelFunc

	halted   atomic.Int32 // HaltReason
	checking atomic.Bool  // CAS gate for the stopping-condition/progress check

	nodeCount atomic.Int64

	iterMu    sync.Mutex
	iterCount int64

	onProgress func(iterations, nodes int64)
}

// NewThreadControl creates a ThreadControl that auto-halts with
// HaltMaxIterations-equivalent semantics if timeLimit elapses (0 means
// no deadline). Install a progress callback with SetProgressHandler.
func NewThreadControl(timeLimit time.Duration) *ThreadControl {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeLimit > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeLimit)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	return &ThreadControl{ctx: ctx, cancel: cancel}
}

// Halt sets the halt reason, if none is set yet, and cancels the
// shared context so any goroutine selecting on Done() wakes up.
func (tc *ThreadControl) Halt(reason HaltReason) {
	tc.halted.CompareAndSwap(int32(HaltNone), int32(reason))
	tc.cancel()
}

// IsHalted reports whether any halt reason has been set.
func (tc *ThreadControl) IsHalted() bool {
	return HaltReason(tc.halted.Load()) != HaltNone
}

// HaltReason returns the current halt reason (HaltNone if still
// running).
func (tc *ThreadControl) HaltReason() HaltReason {
	return HaltReason(tc.halted.Load())
}

// Done returns a channel closed once the pool has been halted or its
// deadline has elapsed, for use in a worker's select alongside its own
// work.
func (tc *ThreadControl) Done() <-chan struct{} {
	return tc.ctx.Done()
}

// AddNodes adds delta to the shared node counter (atomic increment,
// per §5).
func (tc *ThreadControl) AddNodes(delta int64) int64 {
	return tc.nodeCount.Add(delta)
}

// NodeCount returns the total node count so far.
func (tc *ThreadControl) NodeCount() int64 {
	return tc.nodeCount.Load()
}

// IncrementIterations bumps and returns the shared iteration count
// under its mutex, per §5's "iteration_count: protected by a mutex;
// incremented and snapshotted per iteration".
func (tc *ThreadControl) IncrementIterations() int64 {
	tc.iterMu.Lock()
	defer tc.iterMu.Unlock()
	tc.iterCount++
	n := tc.iterCount
	if tc.onProgress != nil {
		tc.onProgress(n, tc.nodeCount.Load())
	}
	return n
}

// Iterations returns the current shared iteration count.
func (tc *ThreadControl) Iterations() int64 {
	tc.iterMu.Lock()
	defer tc.iterMu.Unlock()
	return tc.iterCount
}

// TryBeginCheck attempts to claim the single-worker-at-a-time gate for
// an expensive periodic check (the simulator's stopping-condition
// evaluation, or a progress report). Returns true if this call won the
// race; the caller must call EndCheck when done.
func (tc *ThreadControl) TryBeginCheck() bool {
	return tc.checking.CompareAndSwap(false, true)
}

// EndCheck releases the gate claimed by a successful TryBeginCheck.
func (tc *ThreadControl) EndCheck() {
	tc.checking.Store(false)
}

// SetProgressHandler installs a callback invoked from
// IncrementIterations with the current iteration and node counts. Not
// safe to call concurrently with running workers.
func (tc *ThreadControl) SetProgressHandler(fn func(iterations, nodes int64)) {
	tc.onProgress = fn
}

// RunWorkerPool spawns numWorkers goroutines each running work(workerID),
// waits for all of them to return, and then reports HaltMaxIterations
// if the deadline was what stopped things (as opposed to an explicit
// Halt call already having set a reason). Mirrors riddle.go's
// WaitGroup-based worker pool.
func (tc *ThreadControl) RunWorkerPool(numWorkers int, work func(workerID int)) {
	if numWorkers > MaxThreads {
		numWorkers = MaxThreads
	}
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(id int) {
			defer wg.Done()
			work(id)
		}(i)
	}
	wg.Wait()
	select {
	case <-tc.ctx.Done():
		tc.halted.CompareAndSwap(int32(HaltNone), int32(HaltMaxIterations))
	default:
	}
}
