package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/canvas/internal/preview"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// Manager owns the live sessions, keyed by a generated id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	// closing is held while a removed session is being closed; it is taken
	// under mu so CloseAll can wait for removals already under way.
	closing sync.Mutex
	opts     Options
	prefs    theme.Persister
	stats    *Store
	composer *preview.Composer
}

// NewManager creates a Manager. prefs and stats may be nil, in which case
// theme choices live in memory and activity is not recorded.
func NewManager(opts Options, prefs theme.Persister, stats *Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		prefs:    prefs,
		stats:    stats,
		composer: &preview.Composer{},
	}
}

// Options returns the options new sessions are created with.
func (m *Manager) Options() Options { return m.opts }

// Create starts a new session for clientID.
func (m *Manager) Create(ctx context.Context, clientID string) (*Session, error) {
	pref, err := theme.NewTracker(ctx, m.prefs, clientID)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if m.opts.DefaultTheme.Valid() {
		pref.SetSystem(m.opts.DefaultTheme)
	}

	id := uuid.NewString()
	var recorder StatsRecorder
	if m.stats != nil {
		if err := m.stats.Opened(ctx, id, clientID); err != nil {
			return nil, fmt.Errorf("recording session: %w", err)
		}
		recorder = m.stats
	}

	s := newSession(id, clientID, pref, m.composer, m.opts, recorder)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Remove closes and forgets a session.
func (m *Manager) Remove(ctx context.Context, id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, id)
	m.closing.Lock()
	m.mu.Unlock()
	defer m.closing.Unlock()

	s.Close()
	if m.stats != nil {
		if err := m.stats.Closed(ctx, id); err != nil {
			log.Printf("session %s: recording close: %v", id, err)
		}
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll closes every session, as on server shutdown. It returns once
// every session removed before or during the call has been closed.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Remove(ctx, id)
	}

	// Wait out removals started elsewhere, such as a connection handler
	// that lost the race for one of ids.
	m.mu.Lock()
	m.closing.Lock()
	m.closing.Unlock()
	m.mu.Unlock()
}

// ForClient returns the live sessions opened by clientID.
func (m *Manager) ForClient(clientID string) []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out
}
