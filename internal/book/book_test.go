package book

import (
	"encoding/json"
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

const startingFEN = "rnbqkbnrpppppppp--------------------------PPPPPPPPRNBQKBNR w 0 AHah - -"

func TestAddAndProbe(t *testing.T) {
	b := New()
	b.Add(startingFEN, PositionData{
		PositionValue: 0.1,
		Suggestions: []ChainData{
			{Value: 0.2, Actions: []paco.Action{paco.Lift(paco.D2), paco.Place(paco.D4)}},
			{Value: 0.05, Actions: []paco.Action{paco.Lift(paco.E2), paco.Place(paco.E4)}},
		},
	})

	data, ok := b.Lookup(startingFEN)
	if !ok {
		t.Fatalf("expected the starting position to be in the book")
	}
	best, ok := data.BestChain()
	if !ok || best.Value != 0.2 {
		t.Fatalf("expected the 0.2-value chain to be best, got %+v", best)
	}

	chain, ok := b.Probe(startingFEN)
	if !ok || len(chain.Actions) == 0 {
		t.Fatalf("expected Probe to return a chain")
	}
}

func TestBookMiss(t *testing.T) {
	b := New()
	_, ok := b.Probe(startingFEN)
	if ok {
		t.Fatalf("expected a miss on an empty book")
	}
}

func TestBookRoundTripsThroughJSON(t *testing.T) {
	b := New()
	b.Add(startingFEN, PositionData{
		PositionValue: 0.3,
		Suggestions:   []ChainData{{Value: 0.3, Actions: []paco.Action{paco.Lift(paco.D2)}}},
	})

	encoded, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decoded := New()
	if err := json.Unmarshal(encoded, decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Size() != 1 {
		t.Fatalf("expected one position after round trip, got %d", decoded.Size())
	}
	data, ok := decoded.Lookup(startingFEN)
	if !ok || data.PositionValue != 0.3 {
		t.Fatalf("unexpected data after round trip: %+v", data)
	}
}
