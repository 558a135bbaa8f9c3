package session

import (
	"strings"

	"netchess/internal/board"
	"netchess/internal/game"
	"netchess/pkg/wire"
)

// snapshotOf converts the authoritative state into its wire form.
func snapshotOf(st *game.State) *wire.StateSnapshot {
	snap := &wire.StateSnapshot{
		Turn:             st.Turn.String(),
		HalfMoveClock:    st.HalfMoveClock,
		PendingPromotion: st.PendingPromotion,
		Castling: wire.CastlingState{
			WhiteKingMoved:  st.WhiteKingMoved,
			BlackKingMoved:  st.BlackKingMoved,
			WhiteARookMoved: st.WhiteARookMoved,
			BlackARookMoved: st.BlackARookMoved,
			WhiteHRookMoved: st.WhiteHRookMoved,
			BlackHRookMoved: st.BlackHRookMoved,
		},
	}
	if st.EnPassantFile != nil {
		f := uint8(*st.EnPassantFile)
		snap.EnPassantFile = &f
	}
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := st.Board[r][f]
			if p.IsEmpty() {
				continue
			}
			code := "w"
			if p.Color == board.Black {
				code = "b"
			}
			snap.Board[r][f] = code + strings.ToUpper(string(p.Letter()))
		}
	}
	return snap
}

// moveOf converts a wire move into engine coordinates. Out-of-range
// values cannot occur: RankOf/FileOf map every byte onto the board.
func moveOf(m *wire.Move) game.Move {
	return game.Move{
		From: board.Location{Rank: board.RankOf(m.From.Rank), File: board.FileOf(m.From.File)},
		To:   board.Location{Rank: board.RankOf(m.To.Rank), File: board.FileOf(m.To.File)},
	}
}

// kindOf parses a promotion piece name. Returns 0 for anything that is
// not a valid promotion target name.
func kindOf(piece string) board.Kind {
	switch strings.ToLower(strings.TrimSpace(piece)) {
	case "queen":
		return board.Queen
	case "rook":
		return board.Rook
	case "knight":
		return board.Knight
	case "bishop":
		return board.Bishop
	default:
		return 0
	}
}

func colorOf(name string) (board.Color, bool) {
	switch name {
	case board.White.String():
		return board.White, true
	case board.Black.String():
		return board.Black, true
	default:
		return board.White, false
	}
}
