package matchsync

import (
	"testing"
	"time"

	"github.com/pacosako/engine/internal/paco"
)

func testTimerConfig() TimerConfig {
	return TimerConfig{BudgetWhite: 5 * time.Minute, BudgetBlack: 4 * time.Minute}
}

func TestCreateTimerFromConfig(t *testing.T) {
	now := time.Now()
	timer := NewTimer(testTimerConfig(), now)
	if timer.State.Kind != NotStarted {
		t.Fatalf("expected NotStarted, got %v", timer.State.Kind)
	}
	if timer.TimeLeftWhite != 5*time.Minute || timer.TimeLeftBlack != 4*time.Minute {
		t.Fatalf("unexpected initial budgets: %v / %v", timer.TimeLeftWhite, timer.TimeLeftBlack)
	}
}

func TestStartTimerIsIdempotent(t *testing.T) {
	now := time.Now()
	timer := NewTimer(testTimerConfig(), now)

	timer.Start(now)
	if timer.LastTimestamp != now || timer.State.Kind != Running {
		t.Fatalf("expected a running timer at %v", now)
	}

	later := now.Add(3 * time.Second)
	timer.Start(later)
	if timer.LastTimestamp != now {
		t.Fatalf("starting an already-running timer should not move its timestamp")
	}

	timer.Stop()
	if timer.State.Kind != Stopped {
		t.Fatalf("expected Stopped after Stop")
	}
}

func TestUseTimeTracksEachSideIndependently(t *testing.T) {
	timer := NewTimer(testTimerConfig(), time.Now())
	now := time.Now()

	// Using time before the timer starts has no effect.
	timer.UseTime(paco.White, now.Add(100*time.Second))
	if timer.TimeLeftWhite != 5*time.Minute {
		t.Fatalf("expected no change before Start")
	}

	timer.Start(now)

	now = now.Add(15 * time.Second)
	timer.UseTime(paco.White, now)
	if timer.TimeLeftWhite != 285*time.Second {
		t.Fatalf("expected 285s left for white, got %v", timer.TimeLeftWhite)
	}

	now = now.Add(7 * time.Second)
	timer.UseTime(paco.Black, now)
	if timer.TimeLeftBlack != 233*time.Second {
		t.Fatalf("expected 233s left for black, got %v", timer.TimeLeftBlack)
	}

	now = now.Add(500 * time.Second)
	state := timer.UseTime(paco.Black, now)
	if state.Kind != Timeout || state.Color != paco.Black {
		t.Fatalf("expected a black timeout, got %+v", state)
	}
	if timer.TimeLeftBlack != 0 {
		t.Fatalf("expected black's remaining time clamped to zero")
	}
}

func TestIncrementAddsAfterTurn(t *testing.T) {
	cfg := TimerConfig{BudgetWhite: 5 * time.Minute, BudgetBlack: 5 * time.Minute, Increment: 5 * time.Second}
	timer := NewTimer(cfg, time.Now())
	now := time.Now()
	timer.Start(now)

	now = now.Add(15 * time.Second)
	timer.UseTime(paco.White, now)
	timer.Increment(paco.White)

	if timer.TimeLeftWhite != 290*time.Second {
		t.Fatalf("expected 290s after use+increment, got %v", timer.TimeLeftWhite)
	}
}
