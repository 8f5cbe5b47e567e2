// rack_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

package xwcore

import "testing"

func TestRackAddRemove(t *testing.T) {
	ld := EnglishDistribution
	rack := NewRack(ld)
	rack.Add(MachineLetter(1)) // A
	rack.Add(MachineLetter(1)) // A
	rack.Add(MachineLetter(20)) // T
	if rack.Size != 3 {
		t.Fatalf("expected rack size 3, got %d", rack.Size)
	}
	if !rack.Has(MachineLetter(1)) {
		t.Errorf("rack should hold an A")
	}
	if !rack.Remove(MachineLetter(1)) {
		t.Errorf("Remove should succeed while a tile is present")
	}
	if rack.Size != 2 {
		t.Errorf("expected rack size 2 after Remove, got %d", rack.Size)
	}
	if rack.Remove(MachineLetter(26)) {
		t.Errorf("Remove should fail for a letter the rack doesn't hold")
	}
}

func TestRackFromLettersAndClone(t *testing.T) {
	ld := EnglishDistribution
	letters, err := ld.ParseStr("CAT", false)
	if err != nil {
		t.Fatalf("ParseStr error: %v", err)
	}
	rack := NewRackFromLetters(ld, letters)
	if rack.Size != 3 {
		t.Fatalf("expected rack size 3, got %d", rack.Size)
	}
	clone := rack.Clone()
	clone.Remove(MachineLetter(1))
	if rack.Size != 3 {
		t.Errorf("mutating a clone should not affect the original rack")
	}
	if !rack.Equals(NewRackFromLetters(ld, letters)) {
		t.Errorf("two racks built from the same letters should be equal")
	}
}

func TestRackFillAndReturnToBag(t *testing.T) {
	ld := EnglishDistribution
	bag := NewBag(ld, 7)
	rack := NewRack(ld)
	before := bag.TileCount()
	if !rack.Fill(bag, 0) {
		t.Fatalf("Fill should succeed from a full bag")
	}
	if rack.Size != RackSize {
		t.Errorf("expected a full rack of %d tiles, got %d", RackSize, rack.Size)
	}
	if bag.TileCount() != before-RackSize {
		t.Errorf("bag should have shrunk by RackSize tiles")
	}
	rack.ReturnToBag(bag)
	if !rack.IsEmpty() {
		t.Errorf("rack should be empty after ReturnToBag")
	}
	if bag.TileCount() != before {
		t.Errorf("bag should be back to its original size after ReturnToBag")
	}
}
