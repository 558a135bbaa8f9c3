package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"netchess/internal/board"
	"netchess/internal/game"
	"netchess/pkg/wire"
)

func TestSnapshotOfStartingPosition(t *testing.T) {
	snap := snapshotOf(game.NewState())

	if snap.Turn != "white" {
		t.Fatalf("turn = %q", snap.Turn)
	}
	if snap.PendingPromotion || snap.EnPassantFile != nil || snap.HalfMoveClock != 0 {
		t.Fatalf("fresh snapshot carries stale flags: %+v", snap)
	}

	var want [8][8]string
	back := [8]string{"R", "N", "B", "Q", "K", "B", "N", "R"}
	for f := 0; f < 8; f++ {
		want[0][f] = "w" + back[f]
		want[1][f] = "wP"
		want[6][f] = "bP"
		want[7][f] = "b" + back[f]
	}
	if diff := cmp.Diff(want, snap.Board); diff != "" {
		t.Fatalf("board mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotCarriesDerivedFlags(t *testing.T) {
	st := game.NewState()
	if _, err := st.ApplyMove(game.Move{
		From: board.Location{Rank: board.Rank2, File: board.FileD},
		To:   board.Location{Rank: board.Rank4, File: board.FileD},
	}); err != nil {
		t.Fatalf("d2-d4: %v", err)
	}

	snap := snapshotOf(st)
	if snap.Turn != "black" {
		t.Fatalf("turn = %q", snap.Turn)
	}
	if snap.EnPassantFile == nil || *snap.EnPassantFile != uint8(board.FileD) {
		t.Fatalf("en passant file = %v, want d", snap.EnPassantFile)
	}
	if snap.Board[3][3] != "wP" || snap.Board[1][3] != "" {
		t.Fatalf("pawn not relocated in snapshot")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]board.Kind{
		"queen":  board.Queen,
		" Rook ": board.Rook,
		"KNIGHT": board.Knight,
		"bishop": board.Bishop,
		"king":   0,
		"pawn":   0,
		"dragon": 0,
		"":       0,
	}
	for in, want := range cases {
		if got := kindOf(in); got != want {
			t.Fatalf("kindOf(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMoveOfWrapsOutOfRange(t *testing.T) {
	m := moveOf(&wire.Move{
		From: wire.Square{Rank: 9, File: 12},
		To:   wire.Square{Rank: 200, File: 255},
	})
	if m.From.Rank > board.Rank8 || m.From.File > board.FileH ||
		m.To.Rank > board.Rank8 || m.To.File > board.FileH {
		t.Fatalf("moveOf left coordinates off the board: %+v", m)
	}
}
