package theme

import (
	"context"
	"fmt"
	"sync"
)

// Persister loads and saves a client's stored preference.
type Persister interface {
	Load(ctx context.Context, clientID string) (Mode, bool, error)
	Save(ctx context.Context, clientID string, m Mode) error
}

// Tracker is the Preference for a single client. A stored value always
// wins; system color-scheme changes only apply while nothing is stored.
type Tracker struct {
	mu       sync.Mutex
	clientID string
	store    Persister
	mode     Mode
	saved    bool
	subs     []modeSub
	nextID   uint64
}

type modeSub struct {
	id uint64
	fn func(Mode)
}

// NewTracker loads the client's stored preference, falling back to
// DefaultMode. A nil store keeps the preference in memory only.
func NewTracker(ctx context.Context, store Persister, clientID string) (*Tracker, error) {
	t := &Tracker{clientID: clientID, store: store, mode: DefaultMode}
	if store == nil {
		return t, nil
	}

	m, ok, err := store.Load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading theme preference: %w", err)
	}
	if ok {
		t.mode = m
		t.saved = true
	}
	return t, nil
}

// Get returns the current mode.
func (t *Tracker) Get() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Set stores m and notifies subscribers if it differs from the current mode.
func (t *Tracker) Set(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	if t.store != nil {
		if err := t.store.Save(context.Background(), t.clientID, m); err != nil {
			return fmt.Errorf("saving theme preference: %w", err)
		}
	}

	t.mu.Lock()
	t.saved = true
	t.apply(m)
	return nil
}

// Toggle flips between light and dark.
func (t *Tracker) Toggle() error {
	return t.Set(t.Get().Toggle())
}

// SetSystem reports the host's preferred color scheme. It is ignored once
// the client has stored an explicit choice.
func (t *Tracker) SetSystem(m Mode) {
	if !m.Valid() {
		return
	}
	t.mu.Lock()
	if t.saved {
		t.mu.Unlock()
		return
	}
	t.apply(m)
}

// Forget drops the stored-choice flag after the persisted value was
// cleared, so system changes apply again. The current mode is kept until
// the next system report.
func (t *Tracker) Forget() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.saved = false
}

// Stored reports whether an explicit choice is in effect.
func (t *Tracker) Stored() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saved
}

// apply must be called with t.mu held; it releases the lock before
// notifying.
func (t *Tracker) apply(m Mode) {
	changed := t.mode != m
	t.mode = m
	subs := make([]modeSub, len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	if !changed {
		return
	}
	for _, s := range subs {
		s.fn(m)
	}
}

// Subscribe registers fn for mode changes.
func (t *Tracker) Subscribe(fn func(Mode)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, modeSub{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i], t.subs[i+1:]...)
					return
				}
			}
		})
	}
}
