// Package matchsync implements match synchronization: the authoritative
// in-memory representation of a live match, the action timer, and the
// per-side control protocol deciding which connection may act for which
// color (spec §4.6-§4.7). Adapted from the teacher's internal/engine worker
// idiom (single owning goroutine serializing mutations) and grounded on the
// original engine's sync_match.rs/timer.rs/protection/mod.rs.
package matchsync

import (
	"time"

	"github.com/pacosako/engine/internal/paco"
)

// safetyMaximum bounds every timer duration to avoid overflow from malformed
// client-supplied configs (original timer.rs, issue #85).
const safetyMaximum = 1_000_000 * time.Second

func limitForSafety(d time.Duration) time.Duration {
	if d > safetyMaximum {
		return safetyMaximum
	}
	return d
}

// TimerConfig is the per-match time budget.
type TimerConfig struct {
	BudgetWhite time.Duration `json:"time_budget_white"`
	BudgetBlack time.Duration `json:"time_budget_black"`
	Increment   time.Duration `json:"increment,omitempty"`
}

// Sanitize clamps every duration to the safety maximum.
func (c TimerConfig) Sanitize() TimerConfig {
	return TimerConfig{
		BudgetWhite: limitForSafety(c.BudgetWhite),
		BudgetBlack: limitForSafety(c.BudgetBlack),
		Increment:   limitForSafety(c.Increment),
	}
}

// IsLegal reports whether the config can produce a usable timer.
func (c TimerConfig) IsLegal() bool {
	return c.BudgetWhite > 0 && c.BudgetBlack > 0 && c.Increment >= 0
}

// TimerState is the running/terminal state of a Timer.
type TimerState struct {
	Kind  TimerStateKind `json:"kind"`
	Color paco.Color     `json:"color,omitempty"` // valid for Timeout
}

// TimerStateKind tags TimerState.
type TimerStateKind uint8

const (
	NotStarted TimerStateKind = iota
	Running
	Timeout
	Stopped
)

// IsFinished reports whether the timer can no longer run.
func (s TimerState) IsFinished() bool {
	return s.Kind == Timeout || s.Kind == Stopped
}

// Timer tracks each side's remaining time. All mutation happens through the
// owning Match's single logic goroutine; Timer itself holds no lock.
type Timer struct {
	LastTimestamp time.Time
	TimeLeftWhite time.Duration
	TimeLeftBlack time.Duration
	State         TimerState
	Config        TimerConfig
}

// NewTimer builds a fresh, not-yet-started timer from a config.
func NewTimer(config TimerConfig, now time.Time) *Timer {
	return &Timer{
		LastTimestamp: now,
		TimeLeftWhite: config.BudgetWhite,
		TimeLeftBlack: config.BudgetBlack,
		State:         TimerState{Kind: NotStarted},
		Config:        config,
	}
}

// Start begins the timer, unless it is already running or finished.
func (t *Timer) Start(now time.Time) {
	if t.State.Kind == NotStarted {
		t.LastTimestamp = now
		t.State = TimerState{Kind: Running}
	}
}

// UseTime subtracts the elapsed wall-clock time from player's remaining
// budget and transitions to Timeout if it runs out. A no-op unless the
// timer is Running.
func (t *Timer) UseTime(player paco.Color, now time.Time) TimerState {
	if t.State.Kind != Running {
		return t.State
	}

	elapsed := now.Sub(t.LastTimestamp)
	remaining := &t.TimeLeftWhite
	if player == paco.Black {
		remaining = &t.TimeLeftBlack
	}
	*remaining -= elapsed
	t.LastTimestamp = now

	if *remaining <= 0 {
		*remaining = 0
		t.State = TimerState{Kind: Timeout, Color: player}
	}
	return t.State
}

// Stop halts the timer permanently (a win was reached another way).
func (t *Timer) Stop() {
	t.State = TimerState{Kind: Stopped}
}

// Increment adds the configured increment to player's remaining time. Called
// once per completed turn, never once per atom within a chain.
func (t *Timer) Increment(player paco.Color) {
	if t.Config.Increment <= 0 {
		return
	}
	if player == paco.White {
		t.TimeLeftWhite = limitForSafety(t.TimeLeftWhite + t.Config.Increment)
	} else {
		t.TimeLeftBlack = limitForSafety(t.TimeLeftBlack + t.Config.Increment)
	}
}

// Timeout returns the wall-clock instant at which player would run out of
// time if they retained control until then.
func (t *Timer) Timeout(player paco.Color, now time.Time) time.Time {
	remaining := t.TimeLeftWhite
	if player == paco.Black {
		remaining = t.TimeLeftBlack
	}

	baseline := t.LastTimestamp
	if t.State.Kind == NotStarted {
		baseline = now
	}
	return baseline.Add(remaining)
}

// Sanitize clamps both remaining budgets and the config to the safety
// maximum.
func (t *Timer) Sanitize() {
	t.TimeLeftWhite = limitForSafety(t.TimeLeftWhite)
	t.TimeLeftBlack = limitForSafety(t.TimeLeftBlack)
	t.Config = t.Config.Sanitize()
}
