// Package source owns the two text buffers edited in the playground: the
// markup buffer and the style buffer.
package source

import "sync"

// Kind identifies one of the two buffers.
type Kind string

const (
	Markup Kind = "markup"
	Style  Kind = "style"
)

// Kinds lists every buffer kind in display order.
var Kinds = []Kind{Markup, Style}

// Valid reports whether k names a known buffer.
func (k Kind) Valid() bool {
	return k == Markup || k == Style
}

// FileName returns the tab label the editor shows for the buffer.
func (k Kind) FileName() string {
	switch k {
	case Style:
		return "styles.css"
	default:
		return "index.html"
	}
}

// Listener is called after every write with the buffer kind and its new text.
type Listener func(kind Kind, text string)

// Subscription is returned by Subscribe.
type Subscription struct {
	id    uint64
	store *Store
}

// Unsubscribe removes the listener. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.store != nil {
		s.store.unsubscribe(s.id)
		s.store = nil
	}
}

type subscriber struct {
	id uint64
	fn Listener
}

// Store holds the markup and style buffers. Both start empty.
type Store struct {
	mu     sync.RWMutex
	texts  map[Kind]string
	subs   []subscriber
	nextID uint64
}

// NewStore returns a Store with both buffers empty.
func NewStore() *Store {
	return &Store{texts: map[Kind]string{Markup: "", Style: ""}}
}

// Read returns the current text of the buffer. Unknown kinds read as empty.
func (s *Store) Read(kind Kind) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texts[kind]
}

// Write replaces the buffer text and notifies every listener exactly once,
// in registration order, even when the text is unchanged. Writes to an
// unknown kind are ignored. Listeners run on the caller's goroutine, so
// callers that write from several goroutines must serialize their writes
// to keep notifications ordered.
func (s *Store) Write(kind Kind, text string) {
	if !kind.Valid() {
		return
	}

	s.mu.Lock()
	s.texts[kind] = text
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(kind, text)
	}
}

// Reset empties both buffers, notifying listeners for each.
func (s *Store) Reset() {
	for _, k := range Kinds {
		s.Write(k, "")
	}
}

// Snapshot returns the markup and style text read under one lock.
func (s *Store) Snapshot() (markup, style string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texts[Markup], s.texts[Style]
}

// Subscribe registers fn to run synchronously on every Write.
func (s *Store) Subscribe(fn Listener) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.subs = append(s.subs, subscriber{id: s.nextID, fn: fn})
	return &Subscription{id: s.nextID, store: s}
}

func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
