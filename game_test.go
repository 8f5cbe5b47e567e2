// game_test.go
// Copyright (C) 2024 Vilhjálmur Þorsteinsson / Miðeind ehf.

// Exercises PlayMove/UnplayLastMove's backup-and-restore roundtrip
// using a hand-built placement Move, independent of the move
// generator, to confirm every piece of mutated state (board, racks,
// bag, scores, turn, move history) comes back exactly as it was.

package xwcore

import (
	"reflect"
	"testing"
)

func TestGamePlayAndUnplayPlacement(t *testing.T) {
	ld := EnglishDistribution
	kwg := buildTestKWG()
	klv := buildTestKLV()
	game := NewGame(ld, kwg, klv, 42)
	game.Backup = BackupOn

	startingRack := []MachineLetter{1, 20, 3, 5, 9, 14, 18} // A T C E I N R
	game.Racks[0] = *NewRackFromLetters(ld, startingRack)

	boardBefore := *game.Board
	rackBefore := game.Racks[0].Clone()
	bagBefore := *game.Bag.Clone()

	move := NewPlacementMove([]MachineLetter{1, 20}, 0, 0, false, 4, 4.0) // A T across row 0
	game.PlayMove(move)

	if game.Board.IsEmpty(0, 0) || game.Board.GetLetter(0, 0) != 1 {
		t.Fatalf("expected an A placed at 0,0")
	}
	if game.Board.IsEmpty(0, 1) || game.Board.GetLetter(0, 1) != 20 {
		t.Fatalf("expected a T placed at 0,1")
	}
	if game.Scores[0] != 4 {
		t.Errorf("expected score 4 after the placement, got %d", game.Scores[0])
	}
	if game.Racks[0].Size != RackSize {
		t.Errorf("rack should have been refilled to %d tiles, got %d", RackSize, game.Racks[0].Size)
	}
	if game.PlayerOnTurn != 1 {
		t.Errorf("turn should have passed to player 1, got player %d", game.PlayerOnTurn)
	}
	if len(game.MoveHistory) != 1 {
		t.Fatalf("expected one move in history, got %d", len(game.MoveHistory))
	}
	if game.BackupDepth() != 1 {
		t.Fatalf("expected one backup snapshot, got %d", game.BackupDepth())
	}

	if !game.UnplayLastMove() {
		t.Fatalf("UnplayLastMove should succeed with a snapshot on the stack")
	}

	if !reflect.DeepEqual(*game.Board, boardBefore) {
		t.Errorf("board should be restored to its pre-move state")
	}
	if !game.Racks[0].Equals(rackBefore) {
		t.Errorf("rack should be restored to its pre-move state")
	}
	if game.Bag.TileCount() != bagBefore.TileCount() {
		t.Errorf("bag should be restored to its pre-move tile count")
	}
	if game.Scores[0] != 0 {
		t.Errorf("score should be restored to 0, got %d", game.Scores[0])
	}
	if game.PlayerOnTurn != 0 {
		t.Errorf("turn should be restored to player 0, got player %d", game.PlayerOnTurn)
	}
	if len(game.MoveHistory) != 0 {
		t.Errorf("move history should be restored to empty, got %d entries", len(game.MoveHistory))
	}
	if game.BackupDepth() != 0 {
		t.Errorf("backup stack should be empty after unplaying its only entry")
	}
}

func TestGamePassIncrementsScorelessCounter(t *testing.T) {
	ld := EnglishDistribution
	kwg := buildTestKWG()
	klv := buildTestKLV()
	game := NewGame(ld, kwg, klv, 7)

	game.PlayMove(NewPassMove())
	if game.ConsecutiveScoreless != 1 {
		t.Errorf("expected 1 consecutive scoreless turn after a pass, got %d", game.ConsecutiveScoreless)
	}
	if game.PlayerOnTurn != 1 {
		t.Errorf("turn should advance after a pass")
	}
}
