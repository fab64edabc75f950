package paco

// Actions enumerates every legal action in the current position (spec §4.1
// move generator contracts). A settled board with no pending promotion only
// returns Lift actions for the controlling player's pieces; a pending
// promotion restricts the result to the four Promote actions; otherwise the
// result is the Place targets for whatever is currently in hand.
func Actions(b *Board) []Action {
	if b.Victory.IsOver() {
		return nil
	}
	if b.Promotion != NoSquare {
		actions := make([]Action, len(PromotionPieceTypes))
		for i, pt := range PromotionPieceTypes {
			actions[i] = PromoteTo(pt)
		}
		return actions
	}

	mover := b.ControllingPlayer()
	switch b.Hand.State {
	case HandEmpty:
		return liftActions(b, mover)
	case HandSingle:
		targets := placeTargets(b, mover, b.Hand.Piece, b.Hand.Origin, false)
		actions := make([]Action, len(targets))
		for i, sq := range targets {
			actions[i] = Place(sq)
		}
		return actions
	case HandPair:
		targets := placeTargets(b, mover, b.Hand.Piece, b.Hand.Origin, true)
		actions := make([]Action, len(targets))
		for i, sq := range targets {
			actions[i] = Place(sq)
		}
		return actions
	default:
		return nil
	}
}

// liftActions returns a Lift action for every square where mover has a
// piece (single or part of a union).
func liftActions(b *Board, mover Color) []Action {
	var actions []Action
	occ := b.Substrate.Occupancy(mover)
	occ.ForEach(func(sq Square) {
		actions = append(actions, Lift(sq))
	})
	return actions
}

// placeTargets computes every square the lifted piece/pair may be placed
// on, grounded on the original engine's place_targets family: sliding
// pieces stop at the first obstacle (a single piece may land on it when it
// holds an enemy piece, never slide past it), knights/kings/pawns enumerate
// a fixed offset set, and pairs may only ever land on a fully empty square.
func placeTargets(b *Board, mover Color, piece PieceType, origin Square, isPair bool) []Square {
	switch piece {
	case Pawn:
		return pawnPlaceTargets(b, mover, origin, isPair)
	case Rook:
		return slideTargets(b, mover, origin, rookDirections, isPair)
	case Knight:
		return steppingTargets(b, mover, origin, knightOffsets, isPair)
	case Bishop:
		return slideTargets(b, mover, origin, bishopDirections, isPair)
	case Queen:
		return append(slideTargets(b, mover, origin, rookDirections, isPair), slideTargets(b, mover, origin, bishopDirections, isPair)...)
	case King:
		return kingPlaceTargets(b, mover, origin)
	default:
		return nil
	}
}

var rookDirections = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
var bishopDirections = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
var queenDirections = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
var knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

// canPlaceSingleAt reports whether a single lifted piece may be placed on
// sq: forbidden only when sq already holds mover's own piece without a
// union partner there.
func canPlaceSingleAt(b *Board, mover Color, sq Square) bool {
	return b.Substrate.HasPiece(mover.Other(), sq) || !b.Substrate.HasPiece(mover, sq)
}

func slideTargets(b *Board, mover Color, origin Square, directions [4][2]int, isPair bool) []Square {
	var targets []Square
	for _, d := range directions {
		cur := origin
		for {
			next, ok := cur.Offset(d[0], d[1])
			if !ok {
				break
			}
			cur = next
			if b.Substrate.IsEmpty(cur) {
				targets = append(targets, cur)
				continue
			}
			if !isPair && canPlaceSingleAt(b, mover, cur) {
				targets = append(targets, cur)
			}
			break
		}
	}
	return targets
}

func steppingTargets(b *Board, mover Color, origin Square, offsets [8][2]int, isPair bool) []Square {
	var targets []Square
	for _, d := range offsets {
		sq, ok := origin.Offset(d[0], d[1])
		if !ok {
			continue
		}
		if isPair {
			if b.Substrate.IsEmpty(sq) {
				targets = append(targets, sq)
			}
			continue
		}
		if canPlaceSingleAt(b, mover, sq) {
			targets = append(targets, sq)
		}
	}
	return targets
}

// pawnPlaceTargets mirrors place_targets_pawn: diagonal strikes (including
// en passant) only for a single piece, one step forward onto an empty
// square, and a second step from the pawn's starting rank.
func pawnPlaceTargets(b *Board, mover Color, origin Square, isPair bool) []Square {
	var targets []Square
	forward := mover.ForwardDirection()

	if !isPair {
		for _, dx := range [2]int{-1, 1} {
			sq, ok := origin.Offset(dx, forward)
			if !ok {
				continue
			}
			if b.Substrate.HasPiece(mover.Other(), sq) || sq == b.EnPassant {
				targets = append(targets, sq)
			}
		}
	}

	step, ok := origin.Offset(0, forward)
	if ok && b.Substrate.IsEmpty(step) {
		targets = append(targets, step)
		if origin.InPawnRank(mover) {
			if step2, ok2 := step.Offset(0, forward); ok2 && b.Substrate.IsEmpty(step2) {
				targets = append(targets, step2)
			}
		}
	}
	return targets
}

// kingPlaceTargets enumerates the king's one-step targets (pair-style:
// empty squares only, a king never shares a union by stepping into one)
// plus castling moves advertised as ordinary Place targets while the king
// is in hand, per spec's "castling is just a special Place" contract.
//
// Castling legality here only checks the path is unobstructed; it does not
// verify the king is currently safe or that it does not pass through an
// attacked square (spec §4.1 "Castling": the squares the king traverses
// must not be threatened, with the Ŝako detector as the oracle). That check
// requires internal/sako, which itself imports this package, so it cannot
// live here — callers that need fully legal actions (internal/sako.LegalActions)
// filter the result of this generator instead of duplicating it.
func kingPlaceTargets(b *Board, mover Color, origin Square) []Square {
	var targets []Square
	for _, d := range queenDirections {
		sq, ok := origin.Offset(d[0], d[1])
		if ok && b.Substrate.IsEmpty(sq) {
			targets = append(targets, sq)
		}
	}

	for _, kingSide := range [2]bool{true, false} {
		if !b.Castling.Has(mover, kingSide) {
			continue
		}
		geom := StandardCastlingGeometry(mover, kingSide)
		if geom.KingFrom != origin {
			continue
		}
		if castlingPathClear(b, geom) {
			targets = append(targets, geom.KingTo)
		}
	}
	return targets
}

// castlingPathClear reports whether every square the king and rook pass
// through (other than their own start squares) is empty.
func castlingPathClear(b *Board, geom CastlingGeometry) bool {
	lo, hi := geom.KingFrom, geom.KingTo
	if lo > hi {
		lo, hi = hi, lo
	}
	for sq := lo; sq <= hi; sq++ {
		if sq != geom.KingFrom && !b.Substrate.IsEmpty(sq) {
			return false
		}
	}
	lo, hi = geom.RookFrom, geom.RookTo
	if lo > hi {
		lo, hi = hi, lo
	}
	for sq := lo; sq <= hi; sq++ {
		if sq != geom.RookFrom && !b.Substrate.IsEmpty(sq) {
			return false
		}
	}
	return true
}
