package paco

import "fmt"

// Square is a board position in 0..63 with file = pos mod 8, rank = pos div 8
// (Little-Endian Rank-File Mapping: a1=0, h1=7, a8=56, h8=63).
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file (column) of the square, 0 = a .. 7 = h.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square, 0 = rank 1 .. 7 = rank 8.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g. "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare builds a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// NewSquareChecked builds a square from file/rank, returning NoSquare if
// either coordinate falls off the board.
func NewSquareChecked(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, false
	}
	return NewSquare(file, rank), true
}

// ParseSquare parses algebraic notation (e.g. "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}
	return NewSquare(file, rank), nil
}

// IsValid reports whether sq is one of the 64 board squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror flips the square vertically, used for the black-to-move tensor
// viewpoint (spec §4.8/§8 invariant 7).
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// Offset adds (dx, dy) to the square, returning (NoSquare, false) if the
// result would fall off the board.
func (sq Square) Offset(dx, dy int) (Square, bool) {
	return NewSquareChecked(sq.File()+dx, sq.Rank()+dy)
}

// HomeRankOf returns the color whose home rank this square lies on, or
// NoColor if it is not a home rank.
func (sq Square) HomeRankOf() Color {
	switch sq.Rank() {
	case 0:
		return White
	case 7:
		return Black
	default:
		return NoColor
	}
}

// InPawnRank reports whether sq is the rank from which color's pawns may
// advance two squares (rank 2 for White, rank 7 for Black).
func (sq Square) InPawnRank(c Color) bool {
	if c == White {
		return sq.Rank() == 1
	}
	return sq.Rank() == 6
}

var knightDeltas = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

// KnightTargets returns every square a knight on sq attacks.
func (sq Square) KnightTargets() []Square {
	targets := make([]Square, 0, 8)
	for _, d := range knightDeltas {
		if t, ok := sq.Offset(d[0], d[1]); ok {
			targets = append(targets, t)
		}
	}
	return targets
}

// QueenDeltas lists the eight ray directions a queen (or the reverse-amazon
// search's fairy amazon piece) slides along.
var QueenDeltas = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
