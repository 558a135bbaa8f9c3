package game

import (
	"testing"

	nchess "github.com/corentings/chess/v2"

	"netchess/internal/board"
)

// Cross-checks the engine against an independent chess library on the
// same move sequence: both must agree on legality and on the outcome.
func TestEngineAgreesWithReferenceLibrary(t *testing.T) {
	type ply struct {
		uci string
		mv  Move
	}
	plies := []ply{
		{"f2f3", mv(board.Rank2, board.FileF, board.Rank3, board.FileF)},
		{"e7e5", mv(board.Rank7, board.FileE, board.Rank5, board.FileE)},
		{"g2g4", mv(board.Rank2, board.FileG, board.Rank4, board.FileG)},
		{"d8h4", mv(board.Rank8, board.FileD, board.Rank4, board.FileH)},
	}

	ref := nchess.NewGame()
	s := NewState()
	var history []board.Compact
	for _, p := range plies {
		if err := ref.PushNotationMove(p.uci, nchess.UCINotation{}, nil); err != nil {
			t.Fatalf("reference rejected %s: %v", p.uci, err)
		}
		if _, err := s.ApplyMove(p.mv); err != nil {
			t.Fatalf("engine rejected %s: %v", p.uci, err)
		}
		history = append(history, s.Board.Pack())
	}

	if got := ref.Outcome(); got != nchess.BlackWon {
		t.Fatalf("reference outcome = %v, want black won", got)
	}
	if got := ref.Method(); got != nchess.Checkmate {
		t.Fatalf("reference method = %v, want checkmate", got)
	}

	end, err := s.CheckGameEnd(history)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end == nil || end.Result != BlackWins || end.Reason != Checkmate {
		t.Fatalf("engine end = %+v, want black_wins/checkmate", end)
	}
}

// An illegal move must be rejected by both rule sets.
func TestEngineRejectsWhatReferenceRejects(t *testing.T) {
	ref := nchess.NewGame()
	if err := ref.PushNotationMove("e2e5", nchess.UCINotation{}, nil); err == nil {
		t.Fatalf("reference accepted e2e5")
	}
	s := NewState()
	if _, err := s.ApplyMove(mv(board.Rank2, board.FileE, board.Rank5, board.FileE)); err == nil {
		t.Fatalf("engine accepted e2e5")
	}
}
