// Package game implements the authoritative chess rules: move legality,
// the per-game state machine and terminal-condition detection. Everything
// here is pure computation over in-memory state; ownership and concurrency
// are the session layer's problem.
package game

import (
	"errors"

	"netchess/internal/board"
)

var (
	ErrInvalidMove      = errors.New("invalid move")
	ErrPromotionPending = errors.New("promotion pending")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrCorruptState flags a broken internal invariant (e.g. a side
	// without a king). It is fatal for the affected game only.
	ErrCorruptState = errors.New("game state invariant violated")
)

// Move is a candidate relocation of the piece on From to To.
type Move struct {
	From board.Location
	To   board.Location
}

// State is one game's authoritative record. It is mutated only through
// ApplyMove and Promote.
type State struct {
	Board         board.Board
	Turn          board.Color
	EnPassantFile *board.File
	HalfMoveClock uint8

	// Castling rights are tracked as irreversible "has moved" flags;
	// once set they are never cleared.
	WhiteKingMoved  bool
	BlackKingMoved  bool
	WhiteARookMoved bool
	BlackARookMoved bool
	WhiteHRookMoved bool
	BlackHRookMoved bool

	// PendingPromotion suspends normal play between a pawn reaching the
	// last rank and the promotion choice arriving.
	PendingPromotion bool
}

// NewState returns the standard starting position with White to move.
func NewState() *State {
	return &State{Board: board.StartingPosition(), Turn: board.White}
}

// ApplyMove validates and executes a move, updating every derived flag.
// It reports whether more than the two named squares changed (en-passant
// capture or castling), so a consumer rendering the board knows a plain
// two-square update is not enough. State is untouched on error.
func (s *State) ApplyMove(mv Move) (bool, error) {
	if s.PendingPromotion {
		return false, ErrPromotionPending
	}
	if !s.IsLegalMove(mv) {
		return false, ErrInvalidMove
	}

	piece := s.Board.Take(mv.From)
	captured := !s.Board.At(mv.To).IsEmpty()
	redraw := false

	// En-passant capture: a pawn landing on an empty square of another
	// file took the pawn standing behind its destination.
	if piece.Kind == board.Pawn && !captured && mv.From.File != mv.To.File {
		s.Board.Set(board.Location{Rank: mv.From.Rank, File: mv.To.File}, board.Piece{})
		captured = true
		redraw = true
	}

	if captured || piece.Kind == board.Pawn {
		s.HalfMoveClock = 0
	} else {
		s.HalfMoveClock++
	}

	s.Board.Set(mv.To, piece)

	if piece.Kind == board.Pawn && rankDiff(mv.From.Rank, mv.To.Rank) == 2 {
		f := mv.To.File
		s.EnPassantFile = &f
	} else {
		s.EnPassantFile = nil
	}

	// Any move touching a king or corner-rook home square kills the
	// corresponding castling right for good, no matter which piece moved.
	for _, l := range [2]board.Location{mv.From, mv.To} {
		switch l {
		case board.Location{Rank: board.Rank1, File: board.FileA}:
			s.WhiteARookMoved = true
		case board.Location{Rank: board.Rank1, File: board.FileH}:
			s.WhiteHRookMoved = true
		case board.Location{Rank: board.Rank8, File: board.FileA}:
			s.BlackARookMoved = true
		case board.Location{Rank: board.Rank8, File: board.FileH}:
			s.BlackHRookMoved = true
		case board.Location{Rank: board.Rank1, File: board.FileE}:
			s.WhiteKingMoved = true
		case board.Location{Rank: board.Rank8, File: board.FileE}:
			s.BlackKingMoved = true
		}
	}

	// Castling relocates the rook alongside the two-file king move.
	if piece.Kind == board.King && fileDiff(mv.From.File, mv.To.File) == 2 {
		rank := mv.From.Rank
		switch mv.To.File {
		case board.FileG:
			rook := s.Board.Take(board.Location{Rank: rank, File: board.FileH})
			s.Board.Set(board.Location{Rank: rank, File: board.FileF}, rook)
			redraw = true
		case board.FileC:
			rook := s.Board.Take(board.Location{Rank: rank, File: board.FileA})
			s.Board.Set(board.Location{Rank: rank, File: board.FileD}, rook)
			redraw = true
		}
	}

	if piece.Kind == board.Pawn && mv.To.Rank == lastRank(piece.Color) {
		s.PendingPromotion = true
	}

	s.Turn = s.Turn.Other()
	return redraw, nil
}

// Promote resolves a pending promotion by replacing the promoted pawn with
// the chosen piece. King and Pawn are not valid choices.
func (s *State) Promote(kind board.Kind) error {
	if !s.PendingPromotion {
		return ErrNoPromotion
	}
	switch kind {
	case board.Queen, board.Rook, board.Knight, board.Bishop:
	default:
		return ErrInvalidPromotion
	}
	// The turn already flipped when the pawn advanced, so the promoting
	// side is the one not to move.
	mover := s.Turn.Other()
	rank := lastRank(mover)
	for f := board.FileA; f <= board.FileH; f++ {
		l := board.Location{Rank: rank, File: f}
		p := s.Board.At(l)
		if p.Kind == board.Pawn && p.Color == mover {
			s.Board.Set(l, board.Piece{Color: mover, Kind: kind})
			s.PendingPromotion = false
			return nil
		}
	}
	return ErrCorruptState
}

func lastRank(c board.Color) board.Rank {
	if c == board.White {
		return board.Rank8
	}
	return board.Rank1
}

func homePawnRank(c board.Color) board.Rank {
	if c == board.White {
		return board.Rank2
	}
	return board.Rank7
}

func rankDiff(a, b board.Rank) uint8 {
	if a > b {
		return uint8(a - b)
	}
	return uint8(b - a)
}

func fileDiff(a, b board.File) uint8 {
	if a > b {
		return uint8(a - b)
	}
	return uint8(b - a)
}
