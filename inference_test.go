// inference_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Smoke-tests Infer with the bag fully drained, which makes
// isConsistent's "if worker.Bag.TileCount() == 0 { return true }"
// early return (inference.go) the only path taken, so every enumerated
// candidate is accepted without the move generator ever running. This
// lets inference run end to end over the tiny hand-built KWG/KLV
// fixtures in kwg_test.go/klv_test.go.

package xwcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainBag(bag *Bag) {
	for bag.TileCount() > 0 {
		if _, ok := bag.DrawRandom(0); !ok {
			break
		}
	}
}

func TestInferWithEmptyBagSmoke(t *testing.T) {
	ld := EnglishDistribution
	game := NewGame(ld, buildTestKWG(), buildTestKLV(), 55)
	drainBag(game.Bag)
	require.Equal(t, 0, game.Bag.TileCount())

	target := NewRackFromLetters(ld, []MachineLetter{1, 3}) // A, C known
	obs := InferenceObservation{
		PlayTiles: []MachineLetter{1, 20}, // opponent played A, T
		Row:       0,
		Col:       0,
		Vertical:  false,
		Score:     4,
	}
	var errStatus ErrorStatus

	results, engErr := Infer(game, target, obs, 2, 5, &errStatus)
	require.Nil(t, engErr)
	require.NoError(t, errStatus.Err())
	require.NotNil(t, results)

	assert.LessOrEqual(t, len(results.LeaveRackList), 5)
	assert.Len(t, results.Marginals(), ld.Size)
	if len(results.LeaveRackList) > 0 {
		assert.Greater(t, results.TotalDraws(), 0.0)
	}
	leaveStat := results.LeaveStat(CategoryLeave, 1) // letter "A"
	assert.Equal(t, results.EquityStats[CategoryLeave].N(), leaveStat.N())
}

func TestInferValidatesObservation(t *testing.T) {
	ld := EnglishDistribution
	game := NewGame(ld, buildTestKWG(), buildTestKLV(), 56)

	target := NewRack(ld)
	obs := InferenceObservation{} // neither a play nor an exchange
	var errStatus ErrorStatus

	results, engErr := Infer(game, target, obs, 1, 5, &errStatus)
	require.Nil(t, results)
	require.NotNil(t, engErr)
	assert.Equal(t, ErrNoTilesPlayed, engErr.Kind)
}
