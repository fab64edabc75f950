package paco

import (
	"fmt"
	"strconv"
	"strings"
)

// unionGlyph packs the two pieces (possibly absent) that a single FEN
// character represents.
type unionGlyph struct {
	white, black PieceType
}

// glyphTable is the 26-letter union alphabet from spec §6's FEN extension:
// lowercase letters hold a lone Black piece, uppercase their White-lone
// mirror, and the remaining letters name one of the 21 possible union
// combinations (grounded on the original engine's fen.rs
// lowercase_char_to_square - the Go port keeps the same letters and the
// same uppercase-is-the-color-flip rule).
var glyphTable = map[byte]unionGlyph{
	'p': {NoPieceType, Pawn},
	'r': {NoPieceType, Rook},
	'n': {NoPieceType, Knight},
	'b': {NoPieceType, Bishop},
	'q': {NoPieceType, Queen},
	'k': {NoPieceType, King},

	'a': {Pawn, Pawn},
	'c': {Rook, Pawn},
	'd': {Knight, Pawn},
	'e': {Bishop, Pawn},
	'f': {Queen, Pawn},
	'g': {King, Pawn},

	'h': {Rook, Rook},
	'i': {Knight, Rook},
	'j': {Bishop, Rook},
	'l': {Queen, Rook},
	'm': {King, Rook},

	'o': {Knight, Knight},
	's': {Bishop, Knight},
	't': {Queen, Knight},
	'u': {King, Knight},

	'v': {Bishop, Bishop},
	'w': {Queen, Bishop},
	'x': {King, Bishop},

	'y': {Queen, Queen},
	'z': {King, Queen},

	'_': {King, King},
}

var charForGlyph map[unionGlyph]byte

func init() {
	charForGlyph = make(map[unionGlyph]byte, len(glyphTable)*2)
	// Lowercase entries (lone Black piece, or a union) are inserted first so
	// they are preferred whenever a union has a lowercase and uppercase
	// encoding (only 'a'..'_' unions, which have none - kept for parity with
	// the original's insertion order).
	for ch, g := range glyphTable {
		charForGlyph[g] = ch
	}
	for ch, g := range glyphTable {
		flipped := unionGlyph{white: g.black, black: g.white}
		if _, exists := charForGlyph[flipped]; !exists {
			charForGlyph[flipped] = upperByte(ch)
		}
	}
}

func glyphFor(white, black PieceType) (byte, bool) {
	ch, ok := charForGlyph[unionGlyph{white: white, black: black}]
	return ch, ok
}

// ParseFEN parses the spec §6 FEN extension: "<pieces> <controlling player>
// <no-progress count> <castling> <en passant> -". The trailing dash is the
// union/ko-move field, kept for vchess.club compatibility but never
// populated (this engine does not implement the ko rule).
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 5 {
		return nil, fmt.Errorf("invalid fen: need at least 5 fields, got %d", len(fields))
	}

	b := EmptyBoard()
	if err := parsePiecePlacement(&b.Substrate, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		b.CurrentPlayer = White
	case "b":
		b.CurrentPlayer = Black
	default:
		return nil, fmt.Errorf("invalid controlling player: %q", fields[1])
	}

	progress, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid no-progress count: %q", fields[2])
	}
	b.Draw.NoProgressHalfMoves = progress

	b.Castling = parseCastlingRights(fields[3])

	if fields[4] == "-" {
		b.EnPassant = NoSquare
	} else {
		sq, err := ParseSquare(fields[4])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %q", fields[4])
		}
		b.EnPassant = sq
	}

	if err := b.Substrate.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func parsePiecePlacement(s *Substrate, field string) error {
	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return fmt.Errorf("invalid fen: expected 8 ranks, got %d", len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			glyph, ok := glyphTable[lowerByte(ch)]
			if !ok {
				return fmt.Errorf("invalid fen: unknown glyph %q", ch)
			}
			white, black := glyph.white, glyph.black
			if isUpper(ch) {
				white, black = black, white
			}
			if file >= 8 {
				return fmt.Errorf("invalid fen: rank %d too long", rank+1)
			}
			sq := NewSquare(file, rank)
			if white != NoPieceType {
				s.Place(White, white, sq)
			}
			if black != NoPieceType {
				s.Place(Black, black, sq)
			}
			file++
		}
		if file != 8 {
			return fmt.Errorf("invalid fen: rank %d has width %d, want 8", rank+1, file)
		}
	}
	return nil
}

func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }

func upperByte(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}

func lowerByte(ch byte) byte {
	if isUpper(ch) {
		return ch + ('a' - 'A')
	}
	return ch
}

func parseCastlingRights(field string) CastlingRights {
	cr := NoCastling
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'H':
			cr |= WhiteKingSide
		case 'A':
			cr |= WhiteQueenSide
		case 'h':
			cr |= BlackKingSide
		case 'a':
			cr |= BlackQueenSide
		}
	}
	return cr
}

// WriteFEN renders b using the spec §6 FEN extension.
func WriteFEN(b *Board) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		emptyRun := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			white := b.Substrate.PieceAt(White, sq)
			black := b.Substrate.PieceAt(Black, sq)
			if white == NoPieceType && black == NoPieceType {
				emptyRun++
				continue
			}
			if emptyRun > 0 {
				sb.WriteString(strconv.Itoa(emptyRun))
				emptyRun = 0
			}
			ch, ok := glyphFor(white, black)
			if !ok {
				panic(fmt.Sprintf("paco: no FEN glyph for white=%s black=%s", white, black))
			}
			sb.WriteByte(ch)
		}
		if emptyRun > 0 {
			sb.WriteString(strconv.Itoa(emptyRun))
		}
		if rank != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.CurrentPlayer == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	fmt.Fprintf(&sb, " %d %s %s -", b.Draw.NoProgressHalfMoves, b.Castling.String(), b.EnPassant.String())
	return sb.String()
}
