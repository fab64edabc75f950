package sako

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

func TestChasingPacoInTwoOnStartingPositionFindsNone(t *testing.T) {
	b := paco.NewBoard()
	results, err := IsChasingPacoIn2(b, paco.White)
	if err != nil {
		t.Fatalf("IsChasingPacoIn2: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("starting position should offer no chasing-Paco-in-2, got %d", len(results))
	}
}

func TestChasingPacoInTwoDirectVictoryDisqualifies(t *testing.T) {
	b := paco.EmptyBoard()
	b.Substrate.Place(paco.White, paco.Queen, paco.D1)
	b.Substrate.Place(paco.Black, paco.King, paco.D8)
	b.Substrate.Place(paco.White, paco.King, paco.A1)
	b.CurrentPlayer = paco.White

	// A direct capture of the opponent king is chasing-in-1, not in-2, and
	// must return no results.
	results, err := IsChasingPacoIn2(b, paco.White)
	if err != nil {
		t.Fatalf("IsChasingPacoIn2: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("a direct Paco win should disqualify the position, got %d results", len(results))
	}
}
