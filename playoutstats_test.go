// playoutstats_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

package xwcore

import "testing"

func TestPlayoutStatsRecordGame(t *testing.T) {
	stats := NewPlayoutStats()
	stats.RecordGame(400, 380, true)
	stats.RecordGame(300, 350, false)
	stats.RecordGame(320, 320, true)

	if stats.TotalGames() != 3 {
		t.Fatalf("expected 3 games recorded, got %d", stats.TotalGames())
	}
	wins, losses, ties, firsts := stats.Record()
	if wins != 1 || losses != 1 || ties != 1 {
		t.Errorf("expected 1 win/1 loss/1 tie, got %d/%d/%d", wins, losses, ties)
	}
	if firsts != 2 {
		t.Errorf("expected 2 games with player one moving first, got %d", firsts)
	}
	p1, p2 := stats.ScoreStats()
	if p1.N != 3 || p2.N != 3 {
		t.Errorf("expected 3 score samples per side, got %d/%d", p1.N, p2.N)
	}
}

func TestPlayoutStatsAdd(t *testing.T) {
	a := NewPlayoutStats()
	a.RecordGame(400, 380, true)
	b := NewPlayoutStats()
	b.RecordGame(300, 350, false)
	b.RecordGame(320, 320, true)

	a.Add(b)
	if a.TotalGames() != 3 {
		t.Fatalf("expected merged total of 3 games, got %d", a.TotalGames())
	}
	wins, losses, ties, firsts := a.Record()
	if wins != 1 || losses != 1 || ties != 1 || firsts != 2 {
		t.Errorf("expected merged counts 1/1/1/2, got %d/%d/%d/%d", wins, losses, ties, firsts)
	}
}
