package sako

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

func TestNoŜakoOnStartingPosition(t *testing.T) {
	b := paco.NewBoard()
	yes, err := IsŜako(b, paco.White)
	if err != nil {
		t.Fatalf("IsŜako: %v", err)
	}
	if yes {
		t.Fatalf("starting position should never be Ŝako")
	}
}

func TestDirectQueenŜako(t *testing.T) {
	b := paco.EmptyBoard()
	b.Substrate.Place(paco.White, paco.Queen, paco.D1)
	b.Substrate.Place(paco.Black, paco.King, paco.D8)
	b.Substrate.Place(paco.White, paco.King, paco.A1)
	b.CurrentPlayer = paco.White

	yes, err := IsŜako(b, paco.White)
	if err != nil {
		t.Fatalf("IsŜako: %v", err)
	}
	if !yes {
		t.Fatalf("queen on open file should deliver Ŝako")
	}

	sequences, err := FindŜakoSequences(b, paco.White)
	if err != nil {
		t.Fatalf("FindŜakoSequences: %v", err)
	}
	if len(sequences) == 0 {
		t.Fatalf("expected at least one witness sequence")
	}
	for _, seq := range sequences {
		if len(seq) == 0 {
			t.Fatalf("witness sequence should not be empty")
		}
		if seq[0].Kind != paco.ActionLift || seq[0].Square != paco.D1 {
			t.Fatalf("expected witness to start by lifting the queen, got %+v", seq)
		}
	}
}

func TestBlockedQueenIsNotŜako(t *testing.T) {
	b := paco.EmptyBoard()
	b.Substrate.Place(paco.White, paco.Queen, paco.D1)
	b.Substrate.Place(paco.White, paco.Pawn, paco.D4)
	b.Substrate.Place(paco.Black, paco.King, paco.D8)
	b.Substrate.Place(paco.White, paco.King, paco.A1)
	b.CurrentPlayer = paco.White

	yes, err := IsŜako(b, paco.White)
	if err != nil {
		t.Fatalf("IsŜako: %v", err)
	}
	if yes {
		t.Fatalf("own pawn should block the file")
	}
}
