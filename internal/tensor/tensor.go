// Package tensor converts a Board into the neural-net input representation
// the MCTS evaluator consumes: a dense 8x8x30 float tensor, or the 38-index
// compact encoding it expands from. Grounded on the original engine's
// ai/repr.rs, with the layer/index layout adapted verbatim; the loading and
// accumulator plumbing is informed by the teacher's sfnnue package (shape
// inspiration only - Paco Ŝako has no HalfKAv2 feature set to accumulate
// over, so the NNUE math itself is not reused, only the "weights in, planes
// out" shape of the pipeline).
package tensor

import "github.com/pacosako/engine/internal/paco"

const (
	// Layers is the tensor's depth: 24 piece planes, en passant, 4 castling
	// flags, and the half-move clock.
	Layers = 30
	// Width and Height are the board's spatial dimensions.
	Width  = 8
	Height = 8
	// Size is the total float count of the dense tensor.
	Size = Width * Height * Layers

	// IndexCount is the compact 38-index representation's length: 32 piece
	// slots (always exactly 32, settled + lifted), 1 en-passant slot, 4
	// castling slots, 1 half-move-clock slot.
	IndexCount = 38

	// ActionSlots is the neural net's flat policy head width: 1 (value) +
	// 64 (lift) + 64 (place) + 4 (promote) (spec §4.8 invariant #7).
	ActionSlots = 133
)

// Indices is the compact 38-u32 representation: indices[0:32] are flat
// tensor offsets (each marks a single 1.0 in the dense tensor), [32] is the
// en-passant offset or a duplicate of [0] standing in for "none", [33:37]
// are the four castling booleans as 0/1, and [37] is the half-move clock
// (0..100).
type Indices [IndexCount]uint32

// Encode builds the compact index representation from board's viewpoint: a
// board viewed by Black is vertically mirrored so the net always sees
// "my side at the bottom", matching the original's viewpoint_tile.
func Encode(board *paco.Board) Indices {
	var out Indices
	w := &writer{viewpoint: board.ControllingPlayer()}

	for _, color := range [2]paco.Color{paco.White, paco.Black} {
		for sq := paco.Square(0); sq < 64; sq++ {
			pt := board.Substrate.PieceAt(color, sq)
			if pt != paco.NoPieceType {
				w.pushIndex(&out, sq, pt, color, false)
			}
		}
	}

	switch board.Hand.State {
	case paco.HandSingle:
		w.pushIndex(&out, board.Hand.Origin, board.Hand.Piece, board.ControllingPlayer(), true)
	case paco.HandPair:
		w.pushIndex(&out, board.Hand.Origin, board.Hand.Piece, board.ControllingPlayer(), true)
		w.pushIndex(&out, board.Hand.Origin, board.Hand.Partner, board.ControllingPlayer().Other(), true)
	}

	w.pushEnPassant(&out, board.EnPassant)
	w.pushCastling(&out, board.Castling, board.ControllingPlayer())
	w.push(&out, uint32(board.Draw.NoProgressHalfMoves))

	return out
}

// Expand turns the compact representation into the dense 8x8x30 tensor a
// network consumes, assuming out is already zeroed.
func Expand(idx Indices, out *[Size]float32) {
	for i := 0; i <= 32; i++ {
		out[idx[i]] = 1.0
	}
	for i := 33; i <= 36; i++ {
		if idx[i] == 1 {
			layer := i - 8
			for j := 0; j < 64; j++ {
				out[layer*64+j] = 1.0
			}
		}
	}
	clock := float32(idx[37]) / 100.0
	for j := 0; j < 64; j++ {
		out[29*64+j] = clock
	}
}

type writer struct {
	index     int
	viewpoint paco.Color
}

func (w *writer) push(out *Indices, v uint32) {
	out[w.index] = v
	w.index++
}

func (w *writer) pushBool(out *Indices, v bool) {
	if v {
		w.push(out, 1)
	} else {
		w.push(out, 0)
	}
}

func (w *writer) pushIndex(out *Indices, tile paco.Square, pt paco.PieceType, color paco.Color, lifted bool) {
	w.push(out, Index(w.viewpoint, tile, pt, color, lifted))
}

func (w *writer) pushEnPassant(out *Indices, ep paco.Square) {
	if ep != paco.NoSquare {
		w.push(out, 64*24+uint32(viewpointTile(w.viewpoint, ep)))
	} else {
		w.push(out, out[0])
	}
}

func (w *writer) pushCastling(out *Indices, cr paco.CastlingRights, viewpoint paco.Color) {
	if viewpoint == paco.White {
		w.pushSideCastling(out, cr, paco.White)
		w.pushSideCastling(out, cr, paco.Black)
	} else {
		w.pushSideCastling(out, cr, paco.Black)
		w.pushSideCastling(out, cr, paco.White)
	}
}

func (w *writer) pushSideCastling(out *Indices, cr paco.CastlingRights, side paco.Color) {
	w.pushBool(out, cr.Has(side, false))
	w.pushBool(out, cr.Has(side, true))
}

// Index computes the flat tensor offset for one piece occurrence, from
// viewpoint's perspective (spec §4.8 invariant #7: tensor encoding is
// mirrored, never rotated, for Black's viewpoint).
func Index(viewpoint paco.Color, tile paco.Square, pt paco.PieceType, color paco.Color, lifted bool) uint32 {
	liftIndex := uint32(0)
	if lifted {
		liftIndex = 1
	}
	colorIndex := uint32(0)
	if color != viewpoint {
		colorIndex = 1
	}
	pieceIndex := pieceLayerIndex(pt)
	tileIndex := uint32(viewpointTile(viewpoint, tile))
	return tileIndex + 64*(pieceIndex+6*(colorIndex+2*liftIndex))
}

func viewpointTile(viewpoint paco.Color, tile paco.Square) paco.Square {
	if viewpoint == paco.White {
		return tile
	}
	return tile.Mirror()
}

func pieceLayerIndex(pt paco.PieceType) uint32 {
	switch pt {
	case paco.Pawn:
		return 0
	case paco.Rook:
		return 1
	case paco.Knight:
		return 2
	case paco.Bishop:
		return 3
	case paco.Queen:
		return 4
	case paco.King:
		return 5
	default:
		return 0
	}
}
