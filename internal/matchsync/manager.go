package matchsync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/wakequeue"
)

// requestKind tags the logic queue's inbound message sum type (spec §5:
// "websocket frames, AI actions, timer wake-ups").
type requestKind uint8

const (
	requestDoAction requestKind = iota
	requestRollback
	requestCurrentState
	requestTimeout
)

type request struct {
	kind     requestKind
	key      string
	identity Identity
	action   paco.Action
	now      time.Time
	reply    chan<- response
}

type response struct {
	state ClientState
	err   error
}

// Manager owns every live Match and the single logic task that serializes
// all mutations across them (spec §5 "All state mutations funnel through
// one logic task pulling messages from a bounded queue"). A wakequeue.Queue
// supplies timer-expiry wake-ups as just another inbound request, so the
// logic task is the only place match state is ever touched.
//
// Grounded on the teacher's worker-pool idiom (internal/engine/worker.go's
// channel-driven dispatch loop) and on sync_match.rs/ws2.rs's single-actor
// match handling, generalized from one actor per match to one shared logic
// task per process as spec §5 describes.
type Manager struct {
	matches map[string]*Match
	queue   chan request
	wake    *wakequeue.Queue
}

// NewManager creates an empty manager. Call Run to start its logic task and
// wake-up queue; until then, no request can be served.
func NewManager(queueDepth int) *Manager {
	m := &Manager{
		matches: make(map[string]*Match),
		queue:   make(chan request, queueDepth),
	}
	m.wake = wakequeue.New(func(key string) {
		m.queue <- request{kind: requestTimeout, key: key, now: time.Now()}
	})
	return m
}

// Register adds a match the manager will serve requests for. Must be
// called before Run, or from within the logic task itself.
func (m *Manager) Register(match *Match) {
	m.matches[match.Key] = match
}

// Run starts the logic task and the wake-up queue's sleeper goroutine,
// blocking until ctx is cancelled. Both goroutines are supervised together
// via errgroup so a panic recovery or future additional worker (e.g. an AI
// mover) can be folded into the same group without restructuring callers.
func (m *Manager) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	group.Go(func() error {
		m.wake.Run(done)
		return nil
	})

	group.Go(func() error {
		defer close(done)
		return m.logicLoop(ctx)
	})

	return group.Wait()
}

func (m *Manager) logicLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-m.queue:
			m.handle(req)
		}
	}
}

func (m *Manager) handle(req request) {
	match, ok := m.matches[req.key]
	if !ok {
		m.reply(req, response{err: ErrUnknownKey})
		return
	}

	switch req.kind {
	case requestDoAction, requestTimeout:
		now := req.now
		if now.IsZero() {
			now = time.Now()
		}
		var state ClientState
		var err error
		if req.kind == requestDoAction {
			state, err = match.DoAction(req.identity, req.action, now)
		} else if _, err = match.TimerProgress(now); err == nil {
			state, err = match.CurrentState(req.identity)
		}
		if err == nil && match.Timer != nil && match.Timer.State.Kind == Running {
			deadline := match.Timer.Timeout(state.ControllingPlayer, now)
			log.Printf("[matchsync] %s next timeout %s", req.key, humanize.Time(deadline))
			m.wake.Put(req.key, deadline)
		}
		m.reply(req, response{state: state, err: err})
	case requestRollback:
		err := match.Rollback()
		if err != nil {
			m.reply(req, response{err: err})
			return
		}
		state, err := match.CurrentState(req.identity)
		m.reply(req, response{state: state, err: err})
	case requestCurrentState:
		state, err := match.CurrentState(req.identity)
		m.reply(req, response{state: state, err: err})
	}
}

func (m *Manager) reply(req request, resp response) {
	if req.reply != nil {
		req.reply <- resp
	}
}

// DoAction submits an action on behalf of identity and waits for the logic
// task to process it.
func (m *Manager) DoAction(ctx context.Context, key string, identity Identity, action paco.Action) (ClientState, error) {
	return m.submit(ctx, request{kind: requestDoAction, key: key, identity: identity, action: action, now: time.Now()})
}

// Rollback submits a rollback request for key.
func (m *Manager) Rollback(ctx context.Context, key string, identity Identity) (ClientState, error) {
	return m.submit(ctx, request{kind: requestRollback, key: key, identity: identity})
}

// CurrentState submits a read-only projection request for key.
func (m *Manager) CurrentState(ctx context.Context, key string, identity Identity) (ClientState, error) {
	return m.submit(ctx, request{kind: requestCurrentState, key: key, identity: identity})
}

func (m *Manager) submit(ctx context.Context, req request) (ClientState, error) {
	reply := make(chan response, 1)
	req.reply = reply

	select {
	case m.queue <- req:
	case <-ctx.Done():
		return ClientState{}, fmt.Errorf("submitting request: %w", ctx.Err())
	}

	select {
	case resp := <-reply:
		return resp.state, resp.err
	case <-ctx.Done():
		return ClientState{}, fmt.Errorf("awaiting reply: %w", ctx.Err())
	}
}
