package paco

// DrawState tracks the two draw conditions (spec §4.9): fifty-move-style
// no-progress counter and repetition of settled positions. Progress is
// "forming a union" or "promoting a pawn" - advancing a pawn without
// capturing does NOT reset the counter, matching the original engine's
// draw_state.rs (moving a pawn is not progress in Paco Ŝako, only in
// regular chess).
type DrawState struct {
	NoProgressHalfMoves  int
	DrawAfterRepetitions int // 0 disables repetition draws
	seenPositions        map[uint64]int
}

// NewDrawState returns a DrawState with the default repetition threshold.
func NewDrawState() DrawState {
	return DrawState{DrawAfterRepetitions: 3, seenPositions: make(map[uint64]int)}
}

func (d *DrawState) resetProgress() {
	d.NoProgressHalfMoves = 0
	d.seenPositions = make(map[uint64]int)
}

// Board is the authoritative Paco Ŝako position: the settled piece layout
// plus everything needed to resume mid-turn (spec §3 "Board").
type Board struct {
	Substrate Substrate
	Hand      Hand

	Castling  CastlingRights
	EnPassant Square // NoSquare if not available

	// CurrentPlayer is who executes the next Lift/Place once the hand is
	// empty; it flips exactly when a Place empties the hand (spec §4.1).
	// Promotion is orthogonal: the owner of a pending promotion may still
	// differ from CurrentPlayer, see ControllingPlayer.
	CurrentPlayer Color
	Promotion     Square // NoSquare if no promotion pending

	Draw    DrawState
	Victory VictoryState
}

// NewBoard returns the standard Paco Ŝako starting position.
func NewBoard() *Board {
	return &Board{
		Substrate:     NewStartingSubstrate(),
		Hand:          EmptyHand,
		Castling:      AllCastling,
		EnPassant:     NoSquare,
		CurrentPlayer: White,
		Promotion:     NoSquare,
		Draw:          NewDrawState(),
		Victory:       VictoryState{Kind: Running},
	}
}

// EmptyBoard returns a board with no pieces, hand empty, White to move, no
// castling rights. Convenient for constructing test positions.
func EmptyBoard() *Board {
	return &Board{
		Substrate:     NewEmptySubstrate(),
		Hand:          EmptyHand,
		Castling:      NoCastling,
		EnPassant:     NoSquare,
		CurrentPlayer: White,
		Promotion:     NoSquare,
		Draw:          NewDrawState(),
		Victory:       VictoryState{Kind: Running},
	}
}

// IsSettled reports whether the hand is empty and no promotion is pending
// (spec §3, invariant #4: is_settled ⇔ hand = Empty ∧ required_action =
// Lift). A pending promotion is its own distinct, unsettled node: the turn
// is not over until it is resolved.
func (b *Board) IsSettled() bool {
	return b.Hand.IsEmpty() && b.Promotion == NoSquare
}

// ControllingPlayer is who must execute the next action. This only differs
// from CurrentPlayer while a promotion is pending: the player whose pawn
// reached the back rank must resolve it even if CurrentPlayer has already
// flipped to the opponent (spec §3 "Required action"; grounded on the
// original engine's controlling_player(), which defers to the promotion
// target's home-rank owner rather than current_player).
func (b *Board) ControllingPlayer() Color {
	if b.Promotion != NoSquare {
		return b.Promotion.HomeRankOf().Other()
	}
	return b.CurrentPlayer
}

// Required derives the required-action state (spec §3) from Hand,
// Promotion, and Victory. It is never stored directly - see the
// RequiredActionState doc comment for the grounding of this design.
func (b *Board) Required() RequiredActionState {
	if b.Promotion != NoSquare {
		if b.Hand.IsEmpty() {
			if b.Victory.IsOver() {
				return RequirePromoteThenFinish
			}
			return RequirePromoteThenLift
		}
		return RequirePromoteThenPlace
	}
	if b.Hand.IsEmpty() {
		return RequireLift
	}
	return RequirePlace
}

// ResetDrawTracking clears the no-progress counter and the repetition map.
// The chain explorer calls this on its cloned search root before walking a
// turn's states, mirroring the original's reset_half_move_counter call in
// analysis/graph.rs - exploring a chain never itself causes a draw, so
// there is no point carrying the real draw-check map through every cloned
// node in the search.
func (b *Board) ResetDrawTracking() {
	b.Draw.resetProgress()
}

// InterningHash is the hash used to dedupe nodes while exploring within a
// single turn (spec's chain explorer): unlike Substrate.Hash it also folds
// in the Hand, so two boards with an identical settled substrate but a
// different piece mid-chain are never conflated. Grounded on the original
// engine's calculate_interning_hash (referenced by analysis/graph.rs) -
// its body was not part of the retrieved source, so the exact mixing
// function is this package's own, built from the same ingredients the call
// site implies: substrate + hand + controlling player.
func (b *Board) InterningHash() uint64 {
	h := b.Substrate.Hash ^ b.Hand.hashContribution()
	if b.ControllingPlayer() == Black {
		h ^= ZobristSideToMove()
	}
	return h
}

// Clone returns a deep copy of the board (the seenPositions map is copied,
// not shared).
func (b *Board) Clone() *Board {
	clone := *b
	clone.Draw.seenPositions = make(map[uint64]int, len(b.Draw.seenPositions))
	for k, v := range b.Draw.seenPositions {
		clone.Draw.seenPositions[k] = v
	}
	return &clone
}

// settledHash computes the hash used for repetition bookkeeping (spec
// §4.9): substrate + controlling player + en passant + castling rights.
// Unlike Substrate.Hash this intentionally excludes the draw-check map
// itself and the hand (settled positions never have a piece in hand).
func (b *Board) settledHash() uint64 {
	h := b.Substrate.Hash
	if b.ControllingPlayer() == Black {
		h ^= ZobristSideToMove()
	}
	if b.EnPassant != NoSquare {
		h ^= ZobristEnPassant(b.EnPassant.File())
	}
	h ^= ZobristCastling(b.Castling)
	return h
}

// recordPosition applies the draw bookkeeping after a settling Place or
// Promote (spec §4.9), mirroring the original's record_position: a no-op
// once the game is already decided, a no-progress draw at 100 half-moves,
// and a repetition draw once a settled-position hash recurs
// DrawAfterRepetitions times (0 disables repetition draws entirely).
func (b *Board) recordPosition() {
	if b.Victory.IsOver() {
		return
	}
	if b.Draw.NoProgressHalfMoves >= 100 {
		b.Victory = VictoryState{Kind: NoProgressDraw}
		return
	}
	if b.Draw.DrawAfterRepetitions == 0 {
		return
	}
	hash := b.settledHash()
	b.Draw.seenPositions[hash]++
	if b.Draw.seenPositions[hash] >= b.Draw.DrawAfterRepetitions {
		b.Victory = VictoryState{Kind: RepetitionDraw}
	}
}

// checkPacoVictory inspects both kings for a union immediately after a
// placement and declares a Paco victory for whichever player formed it.
// This runs even mid-chain: forming a king union ends the game instantly,
// it does not wait for the turn to settle (spec §4 "Paco").
func (b *Board) checkPacoVictory() {
	if b.Victory.IsOver() {
		return
	}
	for _, c := range [2]Color{White, Black} {
		if sq, ok := b.Substrate.FindKing(c); ok && b.Substrate.IsUnion(sq) {
			b.Victory = VictoryState{Kind: PacoVictory, Color: c.Other()}
			return
		}
	}
}

// Execute applies an action to the board, matching spec §4.1's contract for
// Lift/Place/Promote.
func (b *Board) Execute(a Action) error {
	if b.Victory.IsOver() {
		return ErrGameIsOver
	}
	switch a.Kind {
	case ActionLift:
		return b.lift(a.Square)
	case ActionPlace:
		return b.place(a.Square)
	case ActionPromote:
		return b.promote(a.Promote)
	default:
		return ErrActionNotLegal
	}
}

// lift picks up the piece (or union) belonging to the controlling player at
// sq (spec §4.1 "Lift").
func (b *Board) lift(sq Square) error {
	if b.Promotion != NoSquare {
		return ErrActionNotLegal
	}
	if !b.Hand.IsEmpty() {
		return ErrLiftFullHand
	}
	mover := b.ControllingPlayer()
	piece := b.Substrate.PieceAt(mover, sq)
	if piece == NoPieceType {
		return ErrLiftEmptyPosition
	}
	partner := b.Substrate.PieceAt(mover.Other(), sq)

	b.Substrate.Remove(mover, sq)
	if partner != NoPieceType {
		b.Substrate.Remove(mover.Other(), sq)
		b.Hand = Hand{State: HandPair, Piece: piece, Partner: partner, Origin: sq}
	} else {
		b.Hand = Hand{State: HandSingle, Piece: piece, Origin: sq}
	}

	b.forfeitCastlingOnLift(mover, sq, piece)
	return nil
}

// forfeitCastlingOnLift clears castling rights when the king or a rook
// leaves its home square (spec §3 "Castling rights").
func (b *Board) forfeitCastlingOnLift(mover Color, sq Square, piece PieceType) {
	geomK := StandardCastlingGeometry(mover, true)
	geomQ := StandardCastlingGeometry(mover, false)
	switch {
	case piece == King && sq == geomK.KingFrom:
		b.Castling = b.Castling.ClearColor(mover)
	case piece == Rook && sq == geomK.RookFrom:
		b.Castling = b.Castling.Clear(mover, true)
	case piece == Rook && sq == geomQ.RookFrom:
		b.Castling = b.Castling.Clear(mover, false)
	}
}

// place puts the lifted piece (or pair) down on target (spec §4.1 "Place").
func (b *Board) place(target Square) error {
	if b.Promotion != NoSquare {
		return ErrActionNotLegal
	}
	switch b.Hand.State {
	case HandEmpty:
		return ErrPlaceEmptyHand
	case HandSingle:
		return b.placeSingle(target)
	case HandPair:
		return b.placePair(target)
	default:
		return ErrPlaceEmptyHand
	}
}

func (b *Board) placeSingle(target Square) error {
	mover := b.ControllingPlayer()
	piece := b.Hand.Piece
	origin := b.Hand.Origin

	// En passant: placing a pawn on the stored en-passant square pulls the
	// pawn that double-stepped back onto its passed-through square, unless
	// the mover is merely freeing their own pawn from a union there.
	if b.EnPassant != NoSquare && target == b.EnPassant && piece == Pawn {
		straightAhead, ok := origin.Offset(0, mover.ForwardDirection())
		if !ok || straightAhead != target {
			capturedFrom, _ := target.Offset(0, mover.Other().ForwardDirection())
			capturedPiece := b.Substrate.Remove(mover.Other(), capturedFrom)
			if capturedPiece != NoPieceType {
				b.Substrate.Place(mover.Other(), capturedPiece, target)
			}
		}
	}

	// Pawn reaching the opponent's home rank schedules a promotion.
	if piece == Pawn && target.HomeRankOf() == mover.Other() {
		b.Promotion = target
	}

	if piece == King {
		if geom, ok := castlingMove(mover, origin, target, b.Castling); ok {
			b.Substrate.Move(mover, geom.RookFrom, geom.RookTo)
			b.Castling = b.Castling.ClearColor(mover)
		}
	}

	standing := b.Substrate.Remove(mover, target)
	b.Substrate.Place(mover, piece, target)

	progress := b.Substrate.HasPiece(mover.Other(), target) || piece == Pawn && target.HomeRankOf() == mover.Other()

	if standing != NoPieceType {
		// Landed on a union: mover's own piece there is displaced into the
		// hand and the chain continues with it.
		b.Hand = Hand{State: HandSingle, Piece: standing, Origin: target}
	} else {
		b.recordEnPassantOpportunity(mover, piece, origin, target)
		b.Hand = EmptyHand
		b.CurrentPlayer = b.CurrentPlayer.Other()
	}

	b.afterPlace(progress)
	return nil
}

func (b *Board) placePair(target Square) error {
	mover := b.ControllingPlayer()
	piece, partner := b.Hand.Piece, b.Hand.Partner
	origin := b.Hand.Origin

	if !b.Substrate.IsEmpty(target) {
		return ErrPlacePairFullPosition
	}

	b.recordEnPassantOpportunity(mover, piece, origin, target)

	promoteOwn := piece == Pawn && target.HomeRankOf() == mover.Other()
	promotePartner := partner == Pawn && target.HomeRankOf() == mover
	if promoteOwn || promotePartner {
		b.Promotion = target
	}

	b.Substrate.Place(mover, piece, target)
	b.Substrate.Place(mover.Other(), partner, target)

	b.Hand = EmptyHand
	b.CurrentPlayer = b.CurrentPlayer.Other()

	b.afterPlace(true) // forming a union is always progress
	return nil
}

// recordEnPassantOpportunity stores the pass-through square when a pawn
// advances two steps from its starting rank, and clears any stale
// en-passant square otherwise.
func (b *Board) recordEnPassantOpportunity(mover Color, piece PieceType, origin, target Square) {
	b.EnPassant = NoSquare
	if piece != Pawn || !origin.InPawnRank(mover) {
		return
	}
	if abs(target.Rank()-origin.Rank()) == 2 {
		if passed, ok := origin.Offset(0, mover.ForwardDirection()); ok {
			b.EnPassant = passed
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// afterPlace runs the shared bookkeeping after any Place: progress
// tracking, Paco victory detection, and - once the hand is empty and no
// promotion is pending - repetition/no-progress recording.
func (b *Board) afterPlace(progress bool) {
	if progress {
		b.Draw.resetProgress()
	} else {
		b.Draw.NoProgressHalfMoves++
	}
	b.checkPacoVictory()
	if b.Hand.IsEmpty() && b.Promotion == NoSquare {
		b.recordPosition()
	}
}

// promote resolves a pending promotion (spec §4.1 "Promote").
func (b *Board) promote(newType PieceType) error {
	if newType == Pawn {
		return ErrPromoteToPawn
	}
	if newType == King {
		return ErrPromoteToKing
	}
	if b.Promotion == NoSquare {
		return ErrPromoteWithoutCandidate
	}
	target := b.Promotion
	owner := target.HomeRankOf().Other()

	if b.Substrate.PieceAt(owner, target) != Pawn {
		return ErrPromoteWithoutCandidate
	}
	b.Substrate.Remove(owner, target)
	b.Substrate.Place(owner, newType, target)
	b.Promotion = NoSquare

	b.Draw.resetProgress() // promoting is progress
	b.checkPacoVictory()
	if b.Hand.IsEmpty() {
		b.recordPosition()
	}
	return nil
}
