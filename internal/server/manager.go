package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pattty847/poker-trainer/internal/game"
)

// ErrSessionNotFound is returned for any lookup of an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Manager is the session store: a uuid-keyed registry of independent game
// sessions. It owns no game logic; it routes calls to the right session and
// fans snapshots out to websocket subscribers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
	subs     map[string]map[chan game.Snapshot]struct{}
	logger   *log.Logger
}

// NewManager creates an empty session store.
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*game.Session),
		subs:     make(map[string]map[chan game.Snapshot]struct{}),
		logger:   logger,
	}
}

// Create registers a new session and returns its id with the initial state.
func (m *Manager) Create(cfg game.Config, opts ...game.Option) (string, game.Snapshot, error) {
	session, err := game.NewSession(cfg, opts...)
	if err != nil {
		return "", game.Snapshot{}, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	m.logger.Info("session created", "sessionId", id, "seed", cfg.Seed)

	snap := session.Snapshot()
	snap.SessionID = id
	return id, snap, nil
}

func (m *Manager) lookup(id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(id string) (game.Snapshot, error) {
	session, err := m.lookup(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap := session.Snapshot()
	snap.SessionID = id
	return snap, nil
}

// Apply forwards one human action to the session and publishes the result.
func (m *Manager) Apply(id string, action game.Action, size *float64) (game.Snapshot, error) {
	session, err := m.lookup(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	if err := session.ApplyAction(action, size); err != nil {
		return game.Snapshot{}, err
	}

	snap := session.Snapshot()
	snap.SessionID = id
	m.publish(id, snap)
	return snap, nil
}

// Reset starts the next hand on an existing session.
func (m *Manager) Reset(id string, seed *int64) (game.Snapshot, error) {
	session, err := m.lookup(id)
	if err != nil {
		return game.Snapshot{}, err
	}
	session.ResetHand(seed)

	snap := session.Snapshot()
	snap.SessionID = id
	m.publish(id, snap)
	return snap, nil
}

// Evict removes a session and closes its subscriber channels.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	for ch := range m.subs[id] {
		close(ch)
	}
	delete(m.subs, id)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Subscribe returns a channel receiving a snapshot after every applied action
// or reset on the session. The returned cancel func must be called when the
// consumer is done.
func (m *Manager) Subscribe(id string) (<-chan game.Snapshot, func(), error) {
	if _, err := m.lookup(id); err != nil {
		return nil, nil, err
	}

	ch := make(chan game.Snapshot, 8)
	m.mu.Lock()
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan game.Snapshot]struct{})
	}
	m.subs[id][ch] = struct{}{}
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if set, ok := m.subs[id]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
			}
		}
	}
	return ch, cancel, nil
}

// publish delivers a snapshot to every subscriber without blocking; a slow
// consumer just misses intermediate states.
func (m *Manager) publish(id string, snap game.Snapshot) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for ch := range m.subs[id] {
		select {
		case ch <- snap:
		default:
		}
	}
}
