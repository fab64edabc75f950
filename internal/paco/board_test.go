package paco

import "testing"

func TestStartingBoardZobristFromScratch(t *testing.T) {
	b := NewBoard()
	if got, want := b.Substrate.Hash, b.Substrate.ComputeHash(); got != want {
		t.Fatalf("incremental hash %x != from-scratch hash %x", got, want)
	}
}

func TestLiftPlaceRoundTripRestoresHash(t *testing.T) {
	b := NewBoard()
	before := b.Substrate.Hash

	if err := b.Execute(Lift(G1)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(F3)); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := b.Execute(Lift(G8)); err != nil {
		t.Fatalf("black lift: %v", err)
	}
	if err := b.Execute(Place(F6)); err != nil {
		t.Fatalf("black place: %v", err)
	}
	if err := b.Execute(Lift(F3)); err != nil {
		t.Fatalf("lift back: %v", err)
	}
	if err := b.Execute(Place(G1)); err != nil {
		t.Fatalf("place back: %v", err)
	}
	if err := b.Execute(Lift(F6)); err != nil {
		t.Fatalf("black lift back: %v", err)
	}
	if err := b.Execute(Place(G8)); err != nil {
		t.Fatalf("black place back: %v", err)
	}

	if b.Substrate.Hash != before {
		t.Fatalf("hash after round trip = %x, want %x", b.Substrate.Hash, before)
	}
	if got := b.Substrate.ComputeHash(); got != before {
		t.Fatalf("from-scratch hash after round trip = %x, want %x", got, before)
	}
}

func TestPawnFormsUnionAndChains(t *testing.T) {
	b := EmptyBoard()
	b.Substrate.Place(White, Pawn, E4)
	b.Substrate.Place(Black, Knight, D5)
	b.CurrentPlayer = White

	if err := b.Execute(Lift(E4)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(D5)); err != nil {
		t.Fatalf("place onto union: %v", err)
	}
	if b.Hand.State != HandSingle || b.Hand.Piece != Knight {
		t.Fatalf("expected chain to continue holding the displaced Knight, got %+v", b.Hand)
	}
	if !b.Substrate.IsUnion(D5) {
		t.Fatalf("expected union at d5")
	}
	if b.CurrentPlayer != White {
		t.Fatalf("current player should not flip mid-chain")
	}
}

func TestPawnPromotionRequiresResolutionBeforeNextLift(t *testing.T) {
	b := EmptyBoard()
	b.Substrate.Place(White, Pawn, A7)
	b.Substrate.Place(White, King, A1)
	b.Substrate.Place(Black, King, H8)
	b.CurrentPlayer = White

	if err := b.Execute(Lift(A7)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(A8)); err != nil {
		t.Fatalf("place: %v", err)
	}
	if b.Required() != RequirePromoteThenLift {
		t.Fatalf("required = %s, want PromoteThenLift", b.Required())
	}
	if b.ControllingPlayer() != White {
		t.Fatalf("controlling player should stay White during promotion, got %s", b.ControllingPlayer())
	}

	if err := b.Execute(Lift(A1)); err == nil {
		t.Fatalf("expected lift to be rejected while promotion pending")
	}

	if err := b.Execute(PromoteTo(Queen)); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if b.Substrate.PieceAt(White, A8) != Queen {
		t.Fatalf("expected promoted queen on a8")
	}
	if b.Required() != RequireLift {
		t.Fatalf("required after promotion = %s, want Lift", b.Required())
	}
	if b.CurrentPlayer != Black {
		t.Fatalf("current player should have flipped to Black")
	}
}

func TestEnPassantCapture(t *testing.T) {
	b := EmptyBoard()
	b.Substrate.Place(White, Pawn, E2)
	b.Substrate.Place(Black, Pawn, D4)
	b.CurrentPlayer = White

	if err := b.Execute(Lift(E2)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(E4)); err != nil {
		t.Fatalf("double step: %v", err)
	}
	if b.EnPassant != E3 {
		t.Fatalf("en passant square = %s, want e3", b.EnPassant)
	}

	if err := b.Execute(Lift(D4)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(E3)); err != nil {
		t.Fatalf("en passant capture: %v", err)
	}
	if b.Substrate.HasPiece(White, E4) {
		t.Fatalf("captured pawn should be removed from e4")
	}
	if b.Substrate.PieceAt(Black, E3) != Pawn {
		t.Fatalf("capturing pawn should land on e3")
	}
}

func TestPacoVictoryEndsGameImmediately(t *testing.T) {
	b := EmptyBoard()
	b.Substrate.Place(White, Queen, D1)
	b.Substrate.Place(Black, King, D8)
	b.Substrate.Place(White, King, A1)
	b.CurrentPlayer = White

	if err := b.Execute(Lift(D1)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(D8)); err != nil {
		t.Fatalf("place onto king: %v", err)
	}
	if b.Victory.Kind != PacoVictory || b.Victory.Color != White {
		t.Fatalf("victory = %+v, want PacoVictory(White)", b.Victory)
	}
	if Actions(b) != nil {
		t.Fatalf("expected no further actions once the game is over")
	}
}

func TestCastlingMovesRookToo(t *testing.T) {
	b := EmptyBoard()
	b.Substrate.Place(White, King, E1)
	b.Substrate.Place(White, Rook, H1)
	b.Castling = WhiteKingSide
	b.CurrentPlayer = White

	if err := b.Execute(Lift(E1)); err != nil {
		t.Fatalf("lift: %v", err)
	}
	if err := b.Execute(Place(G1)); err != nil {
		t.Fatalf("castle: %v", err)
	}
	if b.Substrate.PieceAt(White, G1) != King || b.Substrate.PieceAt(White, F1) != Rook {
		t.Fatalf("castling did not relocate king/rook correctly")
	}
	if b.Castling.Has(White, true) || b.Castling.Has(White, false) {
		t.Fatalf("castling rights should be forfeit after castling")
	}
}

func TestActionIndexRoundTrip(t *testing.T) {
	cases := []Action{Lift(A1), Place(H8), PromoteTo(Queen)}
	for _, a := range cases {
		idx := ActionIndex(a)
		got, ok := ActionFromIndex(idx)
		if !ok || got != a {
			t.Fatalf("round trip for %s failed: idx=%d got=%+v ok=%v", a, idx, got, ok)
		}
	}
}
