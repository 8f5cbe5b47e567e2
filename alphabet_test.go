// alphabet_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

package xwcore

import "testing"

func TestParseStrRoundTrip(t *testing.T) {
	ld := EnglishDistribution
	letters, err := ld.ParseStr("CAT", false)
	if err != nil {
		t.Fatalf("ParseStr(CAT) returned error: %v", err)
	}
	if len(letters) != 3 {
		t.Fatalf("expected 3 letters, got %d", len(letters))
	}
	var rendered string
	for _, ml := range letters {
		rendered += ld.MLToString(ml)
	}
	if rendered != "CAT" {
		t.Errorf("round trip produced %q, expected CAT", rendered)
	}
}

func TestParseStrPlaythrough(t *testing.T) {
	ld := EnglishDistribution
	letters, err := ld.ParseStr("C.T", true)
	if err != nil {
		t.Fatalf("ParseStr with playthrough returned error: %v", err)
	}
	if len(letters) != 3 || letters[1] != PlayedThroughMarker {
		t.Errorf("expected middle letter to be PlayedThroughMarker, got %v", letters)
	}
}

func TestParseStrUnrecognizedGlyph(t *testing.T) {
	ld := EnglishDistribution
	if _, err := ld.ParseStr("C@T", false); err == nil {
		t.Errorf("expected an error for an unrecognized glyph")
	}
}

func TestParseStrUnbracketedBlank(t *testing.T) {
	ld := EnglishDistribution
	letters, err := ld.ParseStr("?AT", false)
	if err != nil {
		t.Fatalf("ParseStr(?AT) returned error: %v", err)
	}
	if letters[0] != 0 {
		t.Errorf("expected the blank to parse as machine letter 0, got %v", letters[0])
	}
}

func TestBlankedUnblank(t *testing.T) {
	ml := MachineLetter(1) // A
	blanked := Blanked(ml)
	if !IsBlanked(blanked) {
		t.Errorf("Blanked letter should report IsBlanked true")
	}
	if Unblank(blanked) != ml {
		t.Errorf("Unblank(Blanked(ml)) should equal ml")
	}
}
