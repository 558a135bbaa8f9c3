package game

import "netchess/internal/board"

// The legality engine is two-tier by design. Pseudo-legality checks the
// movement pattern and board occupancy only; it is cheap and never
// recursive. Full legality additionally verifies the moving side's king
// is not left attacked, which sweeps the board with pseudo-legality. The
// attacked-square sweep must never become check-aware, or the recursion
// would not terminate.

// IsLegalMove reports full legality: pseudo-legal and not leaving the
// mover's own king in check.
func (s *State) IsLegalMove(mv Move) bool {
	return s.isPseudoLegal(mv) && !s.wouldLeaveKingInCheck(mv)
}

func (s *State) isPseudoLegal(mv Move) bool {
	if mv.From == mv.To {
		return false
	}
	p := s.Board.At(mv.From)
	if p.IsEmpty() || p.Color != s.Turn {
		return false
	}
	return s.pieceReaches(p, mv)
}

// pieceReaches evaluates the per-piece movement predicate for the piece p
// standing on mv.From. The mover's color is taken from the piece, not from
// the turn, so IsAttacked can probe either side.
func (s *State) pieceReaches(p board.Piece, mv Move) bool {
	switch p.Kind {
	case board.King:
		return s.kingMove(p.Color, mv)
	case board.Queen:
		return s.rayMove(p.Color, mv, true, true)
	case board.Rook:
		return s.rayMove(p.Color, mv, true, false)
	case board.Bishop:
		return s.rayMove(p.Color, mv, false, true)
	case board.Knight:
		return s.knightMove(p.Color, mv)
	case board.Pawn:
		return s.pawnMove(p.Color, mv)
	default:
		return false
	}
}

// IsAttacked reports whether any piece of the given color has a
// pseudo-legal move landing on l. Kings are evaluated adjacency-only
// inside the sweep: castling can never capture, and evaluating its attack
// preconditions from inside an attack query would recurse.
func (s *State) IsAttacked(l board.Location, by board.Color) bool {
	for r := board.Rank1; r <= board.Rank8; r++ {
		for f := board.FileA; f <= board.FileH; f++ {
			from := board.Location{Rank: r, File: f}
			if from == l {
				continue
			}
			p := s.Board.At(from)
			if p.IsEmpty() || p.Color != by {
				continue
			}
			mv := Move{From: from, To: l}
			var hits bool
			if p.Kind == board.King {
				hits = s.kingStep(p.Color, mv)
			} else {
				hits = s.pieceReaches(p, mv)
			}
			if hits {
				return true
			}
		}
	}
	return false
}

// InCheck reports whether the given side's king is currently attacked.
func (s *State) InCheck(c board.Color) (bool, error) {
	king, ok := s.kingLocation(c)
	if !ok {
		return false, ErrCorruptState
	}
	return s.IsAttacked(king, c.Other()), nil
}

// wouldLeaveKingInCheck applies the bare relocation on a copy (no castling
// or en-passant side effects) and tests the mover's king.
func (s *State) wouldLeaveKingInCheck(mv Move) bool {
	probe := *s
	p := probe.Board.Take(mv.From)
	probe.Board.Set(mv.To, p)
	king, ok := probe.kingLocation(p.Color)
	if !ok {
		return true
	}
	return probe.IsAttacked(king, p.Color.Other())
}

func (s *State) kingLocation(c board.Color) (board.Location, bool) {
	for r := board.Rank1; r <= board.Rank8; r++ {
		for f := board.FileA; f <= board.FileH; f++ {
			l := board.Location{Rank: r, File: f}
			p := s.Board.At(l)
			if p.Kind == board.King && p.Color == c {
				return l, true
			}
		}
	}
	return board.Location{}, false
}

// kingStep is the one-square king move: adjacent, onto an empty or
// enemy-occupied square.
func (s *State) kingStep(c board.Color, mv Move) bool {
	if rankDiff(mv.From.Rank, mv.To.Rank) > 1 || fileDiff(mv.From.File, mv.To.File) > 1 {
		return false
	}
	dst := s.Board.At(mv.To)
	return dst.IsEmpty() || dst.Color != c
}

func (s *State) kingMove(c board.Color, mv Move) bool {
	rd := rankDiff(mv.From.Rank, mv.To.Rank)
	fd := fileDiff(mv.From.File, mv.To.File)
	if rd <= 1 && fd <= 1 {
		return s.kingStep(c, mv)
	}
	if rd != 0 || fd != 2 {
		return false
	}

	// Castling: king and the relevant rook untouched, squares between
	// them empty, and none of the king's start, path or destination
	// squares attacked.
	home := board.Rank1
	kingMoved, aRookMoved, hRookMoved := s.WhiteKingMoved, s.WhiteARookMoved, s.WhiteHRookMoved
	if c == board.Black {
		home = board.Rank8
		kingMoved, aRookMoved, hRookMoved = s.BlackKingMoved, s.BlackARookMoved, s.BlackHRookMoved
	}
	if mv.From != (board.Location{Rank: home, File: board.FileE}) || mv.To.Rank != home {
		return false
	}
	opp := c.Other()
	if kingMoved || s.IsAttacked(mv.From, opp) {
		return false
	}
	empty := func(f board.File) bool {
		return s.Board.At(board.Location{Rank: home, File: f}).IsEmpty()
	}
	safe := func(f board.File) bool {
		return !s.IsAttacked(board.Location{Rank: home, File: f}, opp)
	}
	switch mv.To.File {
	case board.FileG:
		return !hRookMoved && empty(board.FileF) && empty(board.FileG) &&
			safe(board.FileF) && safe(board.FileG)
	case board.FileC:
		return !aRookMoved && empty(board.FileB) && empty(board.FileC) && empty(board.FileD) &&
			safe(board.FileC) && safe(board.FileD)
	default:
		return false
	}
}

// rayMove covers rook, bishop and queen movement: straight and/or diagonal
// rays with every square strictly between from and to empty, ending on an
// empty or enemy-occupied square.
func (s *State) rayMove(c board.Color, mv Move, straight, diagonal bool) bool {
	rd := int(mv.To.Rank) - int(mv.From.Rank)
	fd := int(mv.To.File) - int(mv.From.File)
	ok := false
	if straight && (rd == 0 || fd == 0) {
		ok = true
	}
	if diagonal && rd != 0 && abs(rd) == abs(fd) {
		ok = true
	}
	if !ok {
		return false
	}
	dr, df := sign(rd), sign(fd)
	r, f := int(mv.From.Rank)+dr, int(mv.From.File)+df
	for r != int(mv.To.Rank) || f != int(mv.To.File) {
		if !s.Board.At(board.Loc(uint8(r), uint8(f))).IsEmpty() {
			return false
		}
		r += dr
		f += df
	}
	dst := s.Board.At(mv.To)
	return dst.IsEmpty() || dst.Color != c
}

func (s *State) knightMove(c board.Color, mv Move) bool {
	rd := rankDiff(mv.From.Rank, mv.To.Rank)
	fd := fileDiff(mv.From.File, mv.To.File)
	if !(rd == 2 && fd == 1 || rd == 1 && fd == 2) {
		return false
	}
	dst := s.Board.At(mv.To)
	return dst.IsEmpty() || dst.Color != c
}

func (s *State) pawnMove(c board.Color, mv Move) bool {
	dir := 1
	if c == board.Black {
		dir = -1
	}
	fromRank := int(mv.From.Rank)
	toRank := int(mv.To.Rank)

	if mv.From.File == mv.To.File {
		if fromRank+dir == toRank {
			return s.Board.At(mv.To).IsEmpty()
		}
		if mv.From.Rank == homePawnRank(c) && fromRank+2*dir == toRank {
			between := board.Loc(uint8(fromRank+dir), uint8(mv.From.File))
			return s.Board.At(mv.To).IsEmpty() && s.Board.At(between).IsEmpty()
		}
		return false
	}

	if fileDiff(mv.From.File, mv.To.File) != 1 || fromRank+dir != toRank {
		return false
	}
	if dst := s.Board.At(mv.To); !dst.IsEmpty() {
		return dst.Color != c
	}
	// En passant: onto the flagged file, from the rank beside the pawn
	// that just double-pushed.
	if s.EnPassantFile != nil && *s.EnPassantFile == mv.To.File {
		if c == board.White {
			return mv.From.Rank == board.Rank5 && mv.To.Rank == board.Rank6
		}
		return mv.From.Rank == board.Rank4 && mv.To.Rank == board.Rank3
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
