// Package board holds the chessboard model: coordinates, piece taxonomy,
// the 8x8 grid and its compact binary encoding.
package board

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind identifies a piece type. The zero value is reserved for the empty
// square so a Piece zero value means "no piece" and the compact encoding
// can use 0 for empty.
type Kind uint8

const (
	King Kind = iota + 1
	Queen
	Rook
	Knight
	Bishop
	Pawn
)

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Pawn:
		return "pawn"
	default:
		return "none"
	}
}

// Rank is a board row, 0-7. Rank1 is White's back rank.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// File is a board column, 0-7. FileA is the queenside edge.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

var rankTable = [8]Rank{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}
var fileTable = [8]File{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}

// RankOf maps an arbitrary byte onto a Rank through an explicit table.
// The %8 mask guarantees the lookup is in bounds.
func RankOf(v uint8) Rank { return rankTable[v%8] }

// FileOf maps an arbitrary byte onto a File through an explicit table.
func FileOf(v uint8) File { return fileTable[v%8] }

// Location addresses one square. Equality is field-wise.
type Location struct {
	Rank Rank
	File File
}

// Loc is shorthand for building a Location from raw indices.
func Loc(rank, file uint8) Location {
	return Location{Rank: RankOf(rank), File: FileOf(file)}
}

func (l Location) String() string {
	return string(rune('a'+uint8(l.File))) + string(rune('1'+uint8(l.Rank)))
}

// Piece is a colored piece. The zero value is the empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

// IsEmpty reports whether p is the empty-square sentinel.
func (p Piece) IsEmpty() bool { return p.Kind == 0 }

// Board is the 8x8 grid, indexed [rank][file].
type Board [8][8]Piece

// At returns the piece on the given square.
func (b *Board) At(l Location) Piece { return b[l.Rank][l.File] }

// Set places a piece (or the empty sentinel) on the given square.
func (b *Board) Set(l Location, p Piece) { b[l.Rank][l.File] = p }

// Take removes and returns the piece on the given square.
func (b *Board) Take(l Location) Piece {
	p := b[l.Rank][l.File]
	b[l.Rank][l.File] = Piece{}
	return p
}

// StartingPosition returns the standard initial setup.
func StartingPosition() Board {
	var b Board
	back := [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		b[Rank1][f] = Piece{Color: White, Kind: back[f]}
		b[Rank2][f] = Piece{Color: White, Kind: Pawn}
		b[Rank7][f] = Piece{Color: Black, Kind: Pawn}
		b[Rank8][f] = Piece{Color: Black, Kind: back[f]}
	}
	return b
}

var pieceLetters = map[Kind]byte{
	King:   'K',
	Queen:  'Q',
	Rook:   'R',
	Knight: 'N',
	Bishop: 'B',
	Pawn:   'P',
}

// Letter returns the conventional piece letter, lowercase for Black.
func (p Piece) Letter() byte {
	if p.IsEmpty() {
		return ' '
	}
	l := pieceLetters[p.Kind]
	if p.Color == Black {
		l += 'a' - 'A'
	}
	return l
}

// String renders the board with rank 8 on top, for logs and test failures.
func (b Board) String() string {
	out := make([]byte, 0, 8*9)
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			out = append(out, b[r][f].Letter())
		}
		out = append(out, '\n')
	}
	return string(out)
}
