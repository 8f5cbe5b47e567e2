// bag_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Exercises the mirror-game reproducibility property the Bag is
// designed around: a player's sequence of draws depends only on that
// player's own side of the bag, independent of what the other side has
// already drawn, since DrawRandom(0) and DrawRandom(1) advance
// disjoint ends of the same shuffled array.

package xwcore

import "testing"

func TestBagMirrorDrawsAreOrderIndependent(t *testing.T) {
	const seed = 12345

	bagA := NewBag(EnglishDistribution, seed)
	var drawnA0, drawnA1 []MachineLetter
	for i := 0; i < 5; i++ {
		ml, ok := bagA.DrawRandom(0)
		if !ok {
			t.Fatalf("bagA side 0 draw %d failed", i)
		}
		drawnA0 = append(drawnA0, ml)
	}
	for i := 0; i < 5; i++ {
		ml, ok := bagA.DrawRandom(1)
		if !ok {
			t.Fatalf("bagA side 1 draw %d failed", i)
		}
		drawnA1 = append(drawnA1, ml)
	}

	bagB := NewBag(EnglishDistribution, seed)
	var drawnB1, drawnB0 []MachineLetter
	for i := 0; i < 5; i++ {
		ml, ok := bagB.DrawRandom(1)
		if !ok {
			t.Fatalf("bagB side 1 draw %d failed", i)
		}
		drawnB1 = append(drawnB1, ml)
	}
	for i := 0; i < 5; i++ {
		ml, ok := bagB.DrawRandom(0)
		if !ok {
			t.Fatalf("bagB side 0 draw %d failed", i)
		}
		drawnB0 = append(drawnB0, ml)
	}

	for i := range drawnA0 {
		if drawnA0[i] != drawnB0[i] {
			t.Errorf("side 0 draw %d diverged: %v vs %v", i, drawnA0[i], drawnB0[i])
		}
	}
	for i := range drawnA1 {
		if drawnA1[i] != drawnB1[i] {
			t.Errorf("side 1 draw %d diverged: %v vs %v", i, drawnA1[i], drawnB1[i])
		}
	}
}

func TestBagDrawSpecificAndReturnTile(t *testing.T) {
	ld := EnglishDistribution
	bag := NewBag(ld, 1)
	before := bag.TileCount()
	if !bag.DrawSpecific(MachineLetter(1), 0) { // A
		t.Fatalf("expected to find an A tile in a full bag")
	}
	if bag.TileCount() != before-1 {
		t.Errorf("bag should have shrunk by one tile")
	}
	bag.ReturnTile(MachineLetter(1))
	if bag.TileCount() != before {
		t.Errorf("bag should be back to its original size after ReturnTile")
	}
}

func TestBagExchangeAllowed(t *testing.T) {
	ld := EnglishDistribution
	bag := NewBag(ld, 2)
	for bag.TileCount() > RackSize-1 {
		if !bag.ExchangeAllowed() {
			t.Fatalf("exchange should be allowed with %d tiles left", bag.TileCount())
		}
		bag.DrawRandom(0)
	}
	if bag.ExchangeAllowed() {
		t.Errorf("exchange should not be allowed with fewer than RackSize tiles left")
	}
}
