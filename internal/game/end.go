package game

import "netchess/internal/board"

// Result is who the game went to.
type Result uint8

const (
	WhiteWins Result = iota
	BlackWins
	Drawn
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "white_wins"
	case BlackWins:
		return "black_wins"
	default:
		return "draw"
	}
}

// Reason classifies how a game ended.
type Reason uint8

const (
	Checkmate Reason = iota
	Stalemate
	Resignation
	Agreement
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

func (r Reason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Resignation:
		return "resignation"
	case Agreement:
		return "agreement"
	case InsufficientMaterial:
		return "insufficient_material"
	case FiftyMoveRule:
		return "fifty_move_rule"
	default:
		return "threefold_repetition"
	}
}

// End is a terminal classification.
type End struct {
	Result Result
	Reason Reason
}

// CheckGameEnd classifies the position after a completed move. history is
// the compact snapshot of the board after every move so far, most recent
// last. The first matching rule wins; a nil End means the game continues.
//
// The legal-move scan is a deliberate brute force over all from/to pairs:
// bounded by the 64-square board and run once per move, correctness wins
// over speed here.
func (s *State) CheckGameEnd(history []board.Compact) (*End, error) {
	if s.HalfMoveClock >= 50 {
		return &End{Result: Drawn, Reason: FiftyMoveRule}, nil
	}

	cur := s.Board.Pack()
	seen := 0
	for _, h := range history {
		if h == cur {
			seen++
		}
	}
	if seen >= 3 {
		return &End{Result: Drawn, Reason: ThreefoldRepetition}, nil
	}

	if insufficientMaterial(&s.Board) {
		return &End{Result: Drawn, Reason: InsufficientMaterial}, nil
	}

	for r := board.Rank1; r <= board.Rank8; r++ {
		for f := board.FileA; f <= board.FileH; f++ {
			from := board.Location{Rank: r, File: f}
			p := s.Board.At(from)
			if p.IsEmpty() || p.Color != s.Turn {
				continue
			}
			for tr := board.Rank1; tr <= board.Rank8; tr++ {
				for tf := board.FileA; tf <= board.FileH; tf++ {
					if s.IsLegalMove(Move{From: from, To: board.Location{Rank: tr, File: tf}}) {
						return nil, nil
					}
				}
			}
		}
	}

	checked, err := s.InCheck(s.Turn)
	if err != nil {
		return nil, err
	}
	if checked {
		if s.Turn == board.White {
			return &End{Result: BlackWins, Reason: Checkmate}, nil
		}
		return &End{Result: WhiteWins, Reason: Checkmate}, nil
	}
	return &End{Result: Drawn, Reason: Stalemate}, nil
}

// insufficientMaterial reports the bare king-versus-king-and-minor ending:
// exactly three pieces on the board with the sole non-king piece a bishop
// or knight.
func insufficientMaterial(b *board.Board) bool {
	total := 0
	var odd board.Kind
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b[r][f]
			if p.IsEmpty() {
				continue
			}
			total++
			if total > 3 {
				return false
			}
			if p.Kind != board.King {
				if odd != 0 {
					return false
				}
				odd = p.Kind
			}
		}
	}
	return total == 3 && (odd == board.Bishop || odd == board.Knight)
}
