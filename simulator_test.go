// simulator_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Smoke-tests Simulate with Plies:0, which keeps runOneIteration's
// per-ply GenerateMoves call (the "for p := 0; p < params.Plies..."
// loop in simulator.go) from ever running. This lets the simulator run
// end to end over the tiny hand-built KWG/KLV fixtures in
// kwg_test.go/klv_test.go, without needing a move-generator-capable
// lexicon.

package xwcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateZeroPliesSmoke(t *testing.T) {
	ld := EnglishDistribution
	game := NewGame(ld, buildTestKWG(), buildTestKLV(), 99)

	candidates := []*Move{NewPassMove(), NewExchangeMove(nil)}
	params := SimulatorParams{
		Plies:         0,
		MaxIterations: 20,
		NumThreads:    2,
		Seed:          123,
	}
	var errStatus ErrorStatus

	result := Simulate(game, candidates, params, &errStatus)
	require.NoError(t, errStatus.Err())
	require.NotNil(t, result)
	assert.Equal(t, HaltMaxIterations, result.Halt)
	assert.Len(t, result.Plays, len(candidates))

	for _, sp := range result.Plays {
		assert.Greater(t, sp.Equity.N(), int64(0), "every play should have accumulated at least one equity sample")
		assert.Greater(t, sp.Win.N(), int64(0), "every play should have accumulated at least one win%% sample")
	}
	assert.GreaterOrEqual(t, result.NodeCount, int64(0))
}
