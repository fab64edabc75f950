package replay

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

func TestAnalyzeEmptyHistory(t *testing.T) {
	data, err := Analyze(paco.NewBoard(), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(data.Notation) != 0 {
		t.Fatalf("expected no half moves, got %d", len(data.Notation))
	}
}

func TestAnalyzeSimpleMove(t *testing.T) {
	data, err := Analyze(paco.NewBoard(), []paco.Action{
		paco.Lift(paco.D2),
		paco.Place(paco.D4),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(data.Notation) != 1 {
		t.Fatalf("expected one half move, got %d", len(data.Notation))
	}
	hm := data.Notation[0]
	if hm.MoveNumber != 1 || hm.CurrentPlayer != paco.White {
		t.Fatalf("unexpected half move header: %+v", hm)
	}
	if len(hm.Actions) != 1 || hm.Actions[0].Label != "d2>d4" {
		t.Fatalf("unexpected notation: %+v", hm.Actions)
	}
}

func TestAnalyzeChainAndUnion(t *testing.T) {
	data, err := Analyze(paco.NewBoard(), []paco.Action{
		paco.Lift(paco.E2), paco.Place(paco.E4),
		paco.Lift(paco.D7), paco.Place(paco.D5),
		paco.Lift(paco.E4), paco.Place(paco.D5),
		paco.Lift(paco.D8), paco.Place(paco.D5), paco.Place(paco.D4),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(data.Notation) != 4 {
		t.Fatalf("expected four half moves, got %d", len(data.Notation))
	}
	last := data.Notation[3]
	if len(last.Actions) != 2 || last.Actions[0].Label != "Qd8>Pd5" || last.Actions[1].Label != ">d4" {
		t.Fatalf("unexpected chain notation: %+v", last.Actions)
	}
}
