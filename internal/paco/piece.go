package paco

// PieceType enumerates the six Paco Ŝako piece types, numbered 1..6 to give a
// stable tensor/action encoding (spec data model §3). NoPieceType is the
// zero value so a missing piece never collides with Pawn.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Rook:
		return "Rook"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the uppercase FEN letter for the piece type.
func (pt PieceType) Char() byte {
	switch pt {
	case Pawn:
		return 'P'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return '?'
	}
}

// PieceTypeFromChar converts an uppercase FEN letter to a PieceType.
func PieceTypeFromChar(c byte) PieceType {
	switch c {
	case 'P':
		return Pawn
	case 'R':
		return Rook
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return NoPieceType
	}
}

// PieceTypeFromName converts a String()-rendered piece type name back to a
// PieceType, as used by the action wire format's Promote tag.
func PieceTypeFromName(name string) (PieceType, bool) {
	switch name {
	case "Pawn":
		return Pawn, true
	case "Rook":
		return Rook, true
	case "Knight":
		return Knight, true
	case "Bishop":
		return Bishop, true
	case "Queen":
		return Queen, true
	case "King":
		return King, true
	default:
		return NoPieceType, false
	}
}

// PromotionPieceTypes lists the legal promotion targets, in the order the
// move generator advertises them as actions.
var PromotionPieceTypes = [4]PieceType{Rook, Knight, Bishop, Queen}

// IsPromotable reports whether pt is a legal promotion target.
func IsPromotable(pt PieceType) bool {
	return pt == Rook || pt == Knight || pt == Bishop || pt == Queen
}
