package paco

// CastlingRights packs the four castling booleans into a bitmask, mirroring
// the teacher's CastlingRights type (board/position.go) so it slots directly
// into the Zobrist castling table.
type CastlingRights uint8

const (
	WhiteQueenSide CastlingRights = 1 << iota // A-file rook
	WhiteKingSide                             // H-file rook
	BlackQueenSide                            // a-file rook
	BlackKingSide                             // h-file rook

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteQueenSide | WhiteKingSide | BlackQueenSide | BlackKingSide
)

// String returns the FEN castling-rights string using the AaHh alphabet
// (spec §6 FEN extension): uppercase for White's queen/king-side rook file,
// lowercase for Black's.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSide != 0 {
		s += "H"
	}
	if cr&WhiteQueenSide != 0 {
		s += "A"
	}
	if cr&BlackKingSide != 0 {
		s += "h"
	}
	if cr&BlackQueenSide != 0 {
		s += "a"
	}
	return s
}

// Has reports whether color c retains the right to castle on the given side.
func (cr CastlingRights) Has(c Color, kingSide bool) bool {
	switch {
	case c == White && kingSide:
		return cr&WhiteKingSide != 0
	case c == White && !kingSide:
		return cr&WhiteQueenSide != 0
	case c == Black && kingSide:
		return cr&BlackKingSide != 0
	default:
		return cr&BlackQueenSide != 0
	}
}

// Clear returns cr with the given right removed.
func (cr CastlingRights) Clear(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return cr &^ WhiteKingSide
	case c == White && !kingSide:
		return cr &^ WhiteQueenSide
	case c == Black && kingSide:
		return cr &^ BlackKingSide
	default:
		return cr &^ BlackQueenSide
	}
}

// ClearColor forfeits both of color c's castling rights (the king left its
// start square).
func (cr CastlingRights) ClearColor(c Color) CastlingRights {
	return cr.Clear(c, true).Clear(c, false)
}

// CastlingGeometry records the home squares involved in one castling right,
// a carry-over of the original's CompactCastlingIdentifier(king_file,
// rook_file, color). The Board stores only the CastlingRights bits; every
// geometry the engine uses comes from StandardCastlingGeometry's e/a/h
// squares, so Fischer-random starting files are not supported.
type CastlingGeometry struct {
	KingFrom, KingTo Square
	RookFrom, RookTo Square
}

// StandardCastlingGeometry returns the classical-chess king/rook squares for
// color c and side (kingSide true/false). Exported so callers outside this
// package (the Ŝako detector's castling-through-check filter) can enumerate
// the squares a castling move would traverse without duplicating the
// geometry table.
func StandardCastlingGeometry(c Color, kingSide bool) CastlingGeometry {
	rank := 0
	if c == Black {
		rank = 7
	}
	if kingSide {
		return CastlingGeometry{
			KingFrom: NewSquare(4, rank), KingTo: NewSquare(6, rank),
			RookFrom: NewSquare(7, rank), RookTo: NewSquare(5, rank),
		}
	}
	return CastlingGeometry{
		KingFrom: NewSquare(4, rank), KingTo: NewSquare(2, rank),
		RookFrom: NewSquare(0, rank), RookTo: NewSquare(3, rank),
	}
}

// KingTransitSquares returns every square the king occupies or passes
// through while castling (its start square through its destination,
// inclusive), the set a threat filter must check are all unattacked before
// allowing the move (spec §4.1 "Castling").
func (g CastlingGeometry) KingTransitSquares() []Square {
	lo, hi := g.KingFrom, g.KingTo
	if lo > hi {
		lo, hi = hi, lo
	}
	squares := make([]Square, 0, hi-lo+1)
	for sq := lo; sq <= hi; sq++ {
		squares = append(squares, sq)
	}
	return squares
}

// castlingMove reports whether placing mover's king from origin to target
// is a castling move still permitted by cr, returning the geometry to also
// relocate the rook.
func castlingMove(mover Color, origin, target Square, cr CastlingRights) (CastlingGeometry, bool) {
	for _, kingSide := range [2]bool{true, false} {
		if !cr.Has(mover, kingSide) {
			continue
		}
		geom := StandardCastlingGeometry(mover, kingSide)
		if geom.KingFrom == origin && geom.KingTo == target {
			return geom, true
		}
	}
	return CastlingGeometry{}, false
}
