// kwg_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Builds a tiny hand-packed KWG (the words AT, CAT, CATS over the
// English letter distribution) via packKWGNode/NewKWG, exactly the
// "tests build small graphs without going through a loader" path those
// two constructors exist for, and exercises Find over it.

package xwcore

import "testing"

func buildTestKWG() *KWG {
	const (
		a MachineLetter = 1
		c MachineLetter = 3
		s MachineLetter = 19
		T MachineLetter = 20
	)
	nodes := []uint32{
		packKWGNode(a, 2, false, false), // idx0: root edge A -> "A" node at idx2
		packKWGNode(c, 3, false, true),  // idx1: root edge C (last) -> "C" node at idx3
		packKWGNode(T, 0, true, true),   // idx2: "A" node edge T, accepts AT
		packKWGNode(a, 4, false, true),  // idx3: "C" node edge A -> "CA" node at idx4
		packKWGNode(T, 5, true, true),   // idx4: "CA" node edge T, accepts CAT -> "CAT" node at idx5
		packKWGNode(s, 0, true, true),   // idx5: "CAT" node edge S, accepts CATS
	}
	return NewKWG(EnglishDistribution, nodes, 0)
}

func TestKWGFind(t *testing.T) {
	kwg := buildTestKWG()
	ld := EnglishDistribution

	positive := []string{"AT", "CAT", "CATS"}
	for _, word := range positive {
		letters, err := ld.ParseStr(word, false)
		if err != nil {
			t.Fatalf("ParseStr(%v) error: %v", word, err)
		}
		if !kwg.Find(letters) {
			t.Errorf("expected to find %q in the graph", word)
		}
	}

	negative := []string{"CA", "A", "C", "DOG", "CATSA"}
	for _, word := range negative {
		letters, err := ld.ParseStr(word, false)
		if err != nil {
			t.Fatalf("ParseStr(%v) error: %v", word, err)
		}
		if kwg.Find(letters) {
			t.Errorf("did not expect to find %q in the graph", word)
		}
	}
}

func TestKWGLetterSet(t *testing.T) {
	kwg := buildTestKWG()
	set := kwg.LetterSet(kwg.RootNodeIndex())
	if !Allowed(set, MachineLetter(1)) || !Allowed(set, MachineLetter(3)) {
		t.Errorf("root letter set should allow both A and C")
	}
	if Allowed(set, MachineLetter(20)) {
		t.Errorf("root letter set should not allow T")
	}
}
