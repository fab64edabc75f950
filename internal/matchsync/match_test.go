package matchsync

import (
	"testing"
	"time"

	"github.com/pacosako/engine/internal/paco"
)

func TestLegalMovesAreOk(t *testing.T) {
	m := NewMatch("Game1", DefaultSetupOptions(), nil, time.Now())
	u1 := Identity{UUID: "u1"}

	if _, err := m.DoAction(u1, paco.Lift(paco.D2), time.Now()); err != nil {
		t.Fatalf("Lift: %v", err)
	}
	state, err := m.DoAction(u1, paco.Place(paco.D4), time.Now())
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	again, err := m.CurrentState(u1)
	if err != nil {
		t.Fatalf("CurrentState: %v", err)
	}
	if len(again.Actions) != len(state.Actions) {
		t.Fatalf("recomputing the current state should not change the action count")
	}
	if len(state.Actions) != 2 {
		t.Fatalf("expected two committed actions, got %d", len(state.Actions))
	}
	if len(state.LegalActions) == 0 {
		t.Fatalf("expected legal actions to be non-empty after a calm move")
	}
}

func TestControlProtocolUpgradesAndRejects(t *testing.T) {
	m := NewMatch("Game2", DefaultSetupOptions(), nil, time.Now())
	u1 := Identity{UUID: "u1"}
	u2 := Identity{UUID: "u2"}

	if _, err := m.DoAction(u1, paco.Lift(paco.D2), time.Now()); err != nil {
		t.Fatalf("first mover should be allowed: %v", err)
	}
	if m.White.Test(u1) != LockedByYou {
		t.Fatalf("expected white to be locked to u1 after its first move")
	}

	if _, err := m.DoAction(u2, paco.Place(paco.D4), time.Now()); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for a competing identity, got %v", err)
	}

	u1Authed := Identity{UUID: "u1", UserID: "alice"}
	if _, err := m.DoAction(u1Authed, paco.Place(paco.D4), time.Now()); err != nil {
		t.Fatalf("same uuid with an added user id should still be allowed: %v", err)
	}
	if _, ok := m.White.User(); !ok {
		t.Fatalf("expected white's lock to upgrade to a user lock")
	}
}

func TestTimerTimeoutEndsTheGame(t *testing.T) {
	start := time.Now()
	cfg := TimerConfig{BudgetWhite: time.Second, BudgetBlack: time.Minute}
	m := NewMatch("Game3", DefaultSetupOptions(), &cfg, start)

	u1 := Identity{UUID: "u1"}
	if _, err := m.DoAction(u1, paco.Lift(paco.D2), start); err != nil {
		t.Fatalf("Lift: %v", err)
	}
	m.Timer.Start(start)

	late := start.Add(5 * time.Second)
	state, err := m.DoAction(u1, paco.Place(paco.D4), late)
	if err != nil {
		t.Fatalf("DoAction after timeout should still resolve: %v", err)
	}
	if state.Victory.Kind != paco.TimeoutVictory {
		t.Fatalf("expected a timeout victory, got %v", state.Victory)
	}
	if state.Victory.Color != paco.Black {
		t.Fatalf("white ran out, so black should win the timeout, got %v", state.Victory.Color)
	}

	if _, err := m.DoAction(u1, paco.Lift(paco.E2), late); err != ErrGameOver {
		t.Fatalf("expected ErrGameOver once the timeout victory is recorded, got %v", err)
	}
}

func TestRollbackRemovesUncommittedChain(t *testing.T) {
	m := NewMatch("Game4", DefaultSetupOptions(), nil, time.Now())
	u1 := Identity{UUID: "u1"}

	if _, err := m.DoAction(u1, paco.Lift(paco.D2), time.Now()); err != nil {
		t.Fatalf("Lift: %v", err)
	}
	if len(m.Actions) != 1 {
		t.Fatalf("expected one uncommitted action before rollback")
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if len(m.Actions) != 0 {
		t.Fatalf("expected rollback to remove the uncommitted lift, got %d actions", len(m.Actions))
	}
}
