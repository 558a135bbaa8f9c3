package board

// Compact is a fixed binary encoding of the full board: one nibble per
// square, rank-major, low nibble first within each byte. A nibble is the
// 3-bit kind code with the color in bit 3; empty squares encode as zero.
// Two boards represent the same position for repetition purposes iff
// their Compact forms are identical, so Compact values compare with ==.
type Compact [32]byte

// Pack compresses the board into its Compact form.
func (b *Board) Pack() Compact {
	var c Compact
	i := 0
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b[r][f]
			var nib byte
			if !p.IsEmpty() {
				nib = byte(p.Kind) & 0x7
				if p.Color == Black {
					nib |= 0x8
				}
			}
			if i%2 == 0 {
				c[i/2] = nib
			} else {
				c[i/2] |= nib << 4
			}
			i++
		}
	}
	return c
}

// Unpack expands a Compact form back into a Board.
func (c Compact) Unpack() Board {
	var b Board
	for i := 0; i < 64; i++ {
		nib := c[i/2]
		if i%2 == 1 {
			nib >>= 4
		}
		nib &= 0xF
		if nib&0x7 == 0 {
			continue
		}
		p := Piece{Kind: Kind(nib & 0x7)}
		if nib&0x8 != 0 {
			p.Color = Black
		}
		b[i/8][i%8] = p
	}
	return b
}
