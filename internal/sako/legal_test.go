package sako

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

// TestCastlingThroughCheckIsFiltered is spec §8's S4 scenario: king on e1,
// rook on h1, an enemy bishop covering f1 - kingside castling must not be
// offered since the king would pass through an attacked square.
func TestCastlingThroughCheckIsFiltered(t *testing.T) {
	b := paco.EmptyBoard()
	b.Substrate.Place(paco.White, paco.King, paco.E1)
	b.Substrate.Place(paco.White, paco.Rook, paco.H1)
	b.Substrate.Place(paco.Black, paco.Bishop, paco.A6) // a6-f1 diagonal covers f1
	b.Substrate.Place(paco.Black, paco.King, paco.E8)
	b.CurrentPlayer = paco.White
	b.Castling = paco.WhiteKingSide

	if err := b.Execute(paco.Lift(paco.E1)); err != nil {
		t.Fatalf("lift: %v", err)
	}

	actions, err := LegalActions(b)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	for _, a := range actions {
		if a.Kind == paco.ActionPlace && a.Square == paco.G1 {
			t.Fatalf("castling through an attacked square (f1) should not be legal, got %+v", actions)
		}
	}

	// g1 itself is not attacked and the king is not in check, so the plain
	// one-step king moves should still be on offer.
	found := false
	for _, a := range actions {
		if a.Kind == paco.ActionPlace && a.Square == paco.D1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ordinary king step to remain legal, got %+v", actions)
	}
}

// TestCastlingClearOfCheckIsOffered is the control case for the test above:
// remove the bishop and kingside castling should be legal again.
func TestCastlingClearOfCheckIsOffered(t *testing.T) {
	b := paco.EmptyBoard()
	b.Substrate.Place(paco.White, paco.King, paco.E1)
	b.Substrate.Place(paco.White, paco.Rook, paco.H1)
	b.Substrate.Place(paco.Black, paco.King, paco.E8)
	b.CurrentPlayer = paco.White
	b.Castling = paco.WhiteKingSide

	if err := b.Execute(paco.Lift(paco.E1)); err != nil {
		t.Fatalf("lift: %v", err)
	}

	actions, err := LegalActions(b)
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	found := false
	for _, a := range actions {
		if a.Kind == paco.ActionPlace && a.Square == paco.G1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected kingside castling to be legal with no attacker, got %+v", actions)
	}
}
