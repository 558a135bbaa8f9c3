package game

import (
	"testing"

	"netchess/internal/board"
)

func playAll(t *testing.T, s *State, moves []Move) []board.Compact {
	t.Helper()
	var history []board.Compact
	for _, m := range moves {
		if _, err := s.ApplyMove(m); err != nil {
			t.Fatalf("%s-%s: %v", m.From, m.To, err)
		}
		history = append(history, s.Board.Pack())
	}
	return history
}

func TestGameContinuesFromStart(t *testing.T) {
	s := NewState()
	end, err := s.CheckGameEnd(nil)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end != nil {
		t.Fatalf("end = %+v, want ongoing", end)
	}
}

func TestFoolsMate(t *testing.T) {
	s := NewState()
	history := playAll(t, s, []Move{
		mv(board.Rank2, board.FileF, board.Rank3, board.FileF),
		mv(board.Rank7, board.FileE, board.Rank5, board.FileE),
		mv(board.Rank2, board.FileG, board.Rank4, board.FileG),
		mv(board.Rank8, board.FileD, board.Rank4, board.FileH),
	})
	end, err := s.CheckGameEnd(history)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end == nil {
		t.Fatalf("fool's mate not detected")
	}
	if end.Result != BlackWins || end.Reason != Checkmate {
		t.Fatalf("end = %v/%v, want black_wins/checkmate", end.Result, end.Reason)
	}
}

func TestStalemate(t *testing.T) {
	s := &State{Turn: board.Black}
	s.Board.Set(board.Location{Rank: board.Rank8, File: board.FileA}, board.Piece{Color: board.Black, Kind: board.King})
	s.Board.Set(board.Location{Rank: board.Rank6, File: board.FileB}, board.Piece{Color: board.White, Kind: board.King})
	s.Board.Set(board.Location{Rank: board.Rank7, File: board.FileB}, board.Piece{Color: board.White, Kind: board.Rook})

	end, err := s.CheckGameEnd(nil)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end == nil || end.Result != Drawn || end.Reason != Stalemate {
		t.Fatalf("end = %+v, want draw/stalemate", end)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	s := NewState()
	s.HalfMoveClock = 50
	end, err := s.CheckGameEnd(nil)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end == nil || end.Result != Drawn || end.Reason != FiftyMoveRule {
		t.Fatalf("end = %+v, want draw/fifty_move_rule", end)
	}
	s.HalfMoveClock = 49
	end, err = s.CheckGameEnd(nil)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end != nil {
		t.Fatalf("end = %+v at clock 49, want ongoing", end)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	s := NewState()
	// Shuffle the kingside knights back and forth. After the position has
	// recurred three times the game is drawn.
	cycle := []Move{
		mv(board.Rank1, board.FileG, board.Rank3, board.FileF),
		mv(board.Rank8, board.FileG, board.Rank6, board.FileF),
		mv(board.Rank3, board.FileF, board.Rank1, board.FileG),
		mv(board.Rank6, board.FileF, board.Rank8, board.FileG),
	}
	var history []board.Compact
	for rep := 0; rep < 3; rep++ {
		for _, m := range cycle {
			if _, err := s.ApplyMove(m); err != nil {
				t.Fatalf("%s-%s: %v", m.From, m.To, err)
			}
			history = append(history, s.Board.Pack())
		}
	}
	end, err := s.CheckGameEnd(history)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end == nil || end.Result != Drawn || end.Reason != ThreefoldRepetition {
		t.Fatalf("end = %+v, want draw/threefold_repetition", end)
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		name string
		kind board.Kind
		want bool
	}{
		{"bishop", board.Bishop, true},
		{"knight", board.Knight, true},
		{"rook", board.Rook, false},
		{"queen", board.Queen, false},
	}
	for _, c := range cases {
		s := &State{Turn: board.White}
		s.Board.Set(board.Location{Rank: board.Rank1, File: board.FileE}, board.Piece{Color: board.White, Kind: board.King})
		s.Board.Set(board.Location{Rank: board.Rank8, File: board.FileE}, board.Piece{Color: board.Black, Kind: board.King})
		s.Board.Set(board.Location{Rank: board.Rank4, File: board.FileC}, board.Piece{Color: board.White, Kind: c.kind})

		end, err := s.CheckGameEnd(nil)
		if err != nil {
			t.Fatalf("%s: CheckGameEnd: %v", c.name, err)
		}
		drawn := end != nil && end.Reason == InsufficientMaterial
		if drawn != c.want {
			t.Fatalf("%s: insufficient material = %v, want %v", c.name, drawn, c.want)
		}
	}
}

func TestBareKingsNotInsufficientByThisRule(t *testing.T) {
	// Two bare kings fall through to the stalemate/continue scan instead:
	// the rule here is specifically king versus king and one minor.
	s := &State{Turn: board.White}
	s.Board.Set(board.Location{Rank: board.Rank1, File: board.FileE}, board.Piece{Color: board.White, Kind: board.King})
	s.Board.Set(board.Location{Rank: board.Rank8, File: board.FileE}, board.Piece{Color: board.Black, Kind: board.King})
	end, err := s.CheckGameEnd(nil)
	if err != nil {
		t.Fatalf("CheckGameEnd: %v", err)
	}
	if end != nil && end.Reason == InsufficientMaterial {
		t.Fatalf("bare kings classified as insufficient material")
	}
}
