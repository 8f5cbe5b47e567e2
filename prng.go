// prng.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// This file implements the xoshiro256** pseudo-random generator used to
// drive reproducible bag shuffles and draws. The teacher repo uses
// math/rand for its Bag; the spec requires a PRNG family with a defined
// jump() so that per-worker streams (simulator, inference) are
// non-overlapping by construction. No library in the retrieval pack
// implements xoshiro256** with a jump function, so this is a from-
// scratch, standard-library-only implementation of the well-known
// public-domain algorithm (Blackman & Vigna) — the one place in the
// package where no ecosystem dependency could serve (see DESIGN.md).

package xwcore

import "math/bits"

// Xoshiro256 is a xoshiro256** generator with 256 bits of state and a
// jump() that advances the state as if 2^128 calls to Uint64 had been
// made, producing a non-overlapping substream suitable for per-worker
// seeding.
type Xoshiro256 struct {
	s [4]uint64
}

// NewXoshiro256 seeds a generator from a 64-bit seed, using splitmix64
// to fill the 256 bits of state (the standard seeding recipe for
// xoshiro-family generators).
func NewXoshiro256(seed uint64) *Xoshiro256 {
	x := &Xoshiro256{}
	sm := seed
	next := func() uint64 {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for i := range x.s {
		x.s[i] = next()
	}
	return x
}

// Uint64 returns the next 64-bit pseudo-random value.
func (x *Xoshiro256) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[1]*5, 7) * 9
	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)
	return result
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (x *Xoshiro256) Intn(n int) int {
	if n <= 0 {
		panic("Intn: n must be positive")
	}
	return int(x.Uint64() % uint64(n))
}

var jumpTable = [4]uint64{
	0x180ec6d33cfd0aba, 0xd5a61266f0c9392c,
	0xa9582618e03fc9aa, 0x39abdc4529b1661c,
}

// Jump is equivalent to 2^128 calls to Uint64. Calling it k times from
// the same seed produces k non-overlapping substreams, which is how
// workers are seeded: seed, then jump() worker_id times.
func (x *Xoshiro256) Jump() {
	var s0, s1, s2, s3 uint64
	for _, j := range jumpTable {
		for b := 0; b < 64; b++ {
			if j&(uint64(1)<<uint(b)) != 0 {
				s0 ^= x.s[0]
				s1 ^= x.s[1]
				s2 ^= x.s[2]
				s3 ^= x.s[3]
			}
			x.Uint64()
		}
	}
	x.s[0], x.s[1], x.s[2], x.s[3] = s0, s1, s2, s3
}

// SeedForWorker reseeds the generator and then calls Jump() workerID
// times, producing an independent stream for each worker.
func (x *Xoshiro256) SeedForWorker(seed uint64, workerID int) {
	*x = *NewXoshiro256(seed)
	for i := 0; i < workerID; i++ {
		x.Jump()
	}
}
