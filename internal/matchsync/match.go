package matchsync

import (
	"fmt"
	"time"

	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/sako"
)

// SetupOptions are the match-creation-time knobs that influence projection
// but are not part of the action history itself.
type SetupOptions struct {
	SafeMode              bool `json:"safe_mode"`
	DrawAfterNRepetitions int  `json:"draw_after_n_repetitions,omitempty"`
}

// DefaultSetupOptions mirrors the original engine's three-fold-repetition
// default.
func DefaultSetupOptions() SetupOptions {
	return SetupOptions{SafeMode: true, DrawAfterNRepetitions: 3}
}

// Error is the flat taxonomy of match-layer failures (spec §7): protocol
// violations, authorization failures, and game-over refusals are all
// returned as values and never tear down the connection.
type Error string

const (
	ErrGameOver          Error = "match: the game is already over"
	ErrNotAuthorized     Error = "match: you do not control this side"
	ErrUnknownKey        Error = "match: no match with that key"
)

func (e Error) Error() string { return string(e) }

// Match is the authoritative representation of one live game: an opaque
// key, the append-only action history (the single source of truth), an
// optional timer, setup options, and persisted per-side owner bindings.
// Grounded on sync_match.rs's SyncronizedMatch, generalized from one fixed
// DenseBoard replay to Paco Ŝako's full settle/promotion/victory pipeline
// via paco.Board, and extended with the timer and control protocol the
// distilled spec folds into the same module.
//
// A Match is owned by exactly one goroutine at a time (the Manager's single
// logic goroutine, per spec §5); it holds no internal lock.
type Match struct {
	Key     string
	Actions []paco.Action
	Setup   SetupOptions
	Timer   *Timer

	White SideProtection
	Black SideProtection
}

// NewMatch creates an empty match ready to receive actions.
func NewMatch(key string, setup SetupOptions, timerConfig *TimerConfig, now time.Time) *Match {
	m := &Match{
		Key:   key,
		Setup: setup,
		White: ForUser(""),
		Black: ForUser(""),
	}
	if timerConfig != nil {
		cfg := timerConfig.Sanitize()
		m.Timer = NewTimer(cfg, now)
	}
	return m
}

// project replays the action history onto a fresh board. This is the
// match's single source of truth for the current position; nothing else is
// cached.
func (m *Match) project() (*paco.Board, error) {
	board := paco.NewBoard()
	if m.Setup.DrawAfterNRepetitions > 0 {
		board.Draw.DrawAfterRepetitions = m.Setup.DrawAfterNRepetitions
	}
	for _, action := range m.Actions {
		if err := board.Execute(action); err != nil {
			return nil, fmt.Errorf("replaying committed history: %w", err)
		}
	}
	return board, nil
}

// ClientState is the per-viewer projection broadcast after every applied
// action (spec §4.6 "Broadcast"). WhiteControl/BlackControl are computed
// against the requesting viewer's identity, so two viewers of the same
// match can see different control tags for the same ClientState otherwise
// identical.
type ClientState struct {
	Key               string         `json:"key"`
	Actions           []paco.Action  `json:"actions"`
	LegalActions      []paco.Action  `json:"legal_actions"`
	ControllingPlayer paco.Color     `json:"controlling_player"`
	Timer             *Timer         `json:"timer,omitempty"`
	Victory           paco.VictoryState `json:"victory_state"`
	Setup             SetupOptions   `json:"setup"`
	WhiteControl      ControlLevel   `json:"white_control"`
	BlackControl      ControlLevel   `json:"black_control"`
}

// CurrentState projects the history and reports it alongside the legal
// actions from that position, for viewer.
func (m *Match) CurrentState(viewer Identity) (ClientState, error) {
	board, err := m.project()
	if err != nil {
		return ClientState{}, err
	}
	return m.stateFor(board, viewer)
}

// stateFor projects the broadcastable state for viewer. LegalActions goes
// through sako.LegalActions rather than paco.Actions directly so that
// castling through an attacked square is never advertised as legal (spec
// §4.1 "Castling").
func (m *Match) stateFor(board *paco.Board, viewer Identity) (ClientState, error) {
	legal, err := sako.LegalActions(board)
	if err != nil {
		return ClientState{}, err
	}
	return ClientState{
		Key:               m.Key,
		Actions:           m.Actions,
		LegalActions:      legal,
		ControllingPlayer: board.ControllingPlayer(),
		Timer:             m.Timer,
		Victory:           m.effectiveVictory(board),
		Setup:             m.Setup,
		WhiteControl:      m.White.Test(viewer),
		BlackControl:      m.Black.Test(viewer),
	}, nil
}

// effectiveVictory combines the board's own victory state (Paco/draw, which
// is replayed from history) with the timer's wall-clock timeout, which
// lives outside the history since it depends on when it is observed.
func (m *Match) effectiveVictory(board *paco.Board) paco.VictoryState {
	if board.Victory.IsOver() {
		return board.Victory
	}
	if m.Timer != nil && m.Timer.State.Kind == Timeout {
		return paco.VictoryState{Kind: paco.TimeoutVictory, Color: m.Timer.State.Color.Other()}
	}
	return board.Victory
}

// DoAction validates and commits one action submitted by identity (spec
// §4.6 "do_action"/"Per-side control protocol"). If the mover's turn timer
// has already expired, the game is converted to a timeout loss before the
// action is even considered. On success it returns the new state to
// broadcast; the caller is responsible for actually broadcasting it (the
// Match type itself performs no I/O).
func (m *Match) DoAction(identity Identity, action paco.Action, now time.Time) (ClientState, error) {
	board, err := m.project()
	if err != nil {
		return ClientState{}, err
	}

	if m.effectiveVictory(board).IsOver() {
		return ClientState{}, ErrGameOver
	}

	mover := board.ControllingPlayer()

	if m.Timer != nil {
		if state := m.Timer.UseTime(mover, now); state.Kind == Timeout {
			return m.stateFor(board, identity)
		}
	}

	lock := m.lockFor(mover)
	allowed, changed := lock.TestAndAssign(identity)
	if !allowed {
		return ClientState{}, ErrNotAuthorized
	}
	if changed {
		m.setLockFor(mover, *lock)
	}

	wasControlling := board.ControllingPlayer()
	if err := board.Execute(action); err != nil {
		return ClientState{}, err
	}
	m.Actions = append(m.Actions, action)

	if m.Timer != nil && board.ControllingPlayer() != wasControlling {
		m.Timer.Increment(wasControlling)
	}

	return m.stateFor(board, identity)
}

// Rollback removes the current player's uncommitted suffix, back to the
// last settled state reached by the other player. This lets a player undo
// an in-progress chain before it is finalized.
func (m *Match) Rollback() error {
	board := paco.NewBoard()
	lastSettled := 0
	for i, action := range m.Actions {
		if err := board.Execute(action); err != nil {
			return fmt.Errorf("replaying committed history: %w", err)
		}
		if board.IsSettled() {
			lastSettled = i + 1
		}
	}
	m.Actions = m.Actions[:lastSettled]
	return nil
}

// TimerProgress advances the timer's wall clock without committing an
// action, for periodic idle polling; it may transition Running -> Timeout.
func (m *Match) TimerProgress(now time.Time) (TimerState, error) {
	if m.Timer == nil {
		return TimerState{Kind: Stopped}, nil
	}
	board, err := m.project()
	if err != nil {
		return TimerState{}, err
	}
	if m.effectiveVictory(board).IsOver() {
		return m.Timer.State, nil
	}
	return m.Timer.UseTime(board.ControllingPlayer(), now), nil
}

func (m *Match) lockFor(color paco.Color) *SideProtection {
	if color == paco.White {
		return &m.White
	}
	return &m.Black
}

func (m *Match) setLockFor(color paco.Color, lock SideProtection) {
	if color == paco.White {
		m.White = lock
	} else {
		m.Black = lock
	}
}
