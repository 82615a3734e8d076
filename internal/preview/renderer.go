package preview

import (
	"errors"
	"fmt"
	"sync"
)

// State is the renderer's lifecycle state.
type State int

const (
	// Idle means no document is shown.
	Idle State = iota
	// Composing means a composition is in flight.
	Composing
	// Ready means the slot holds a displayed document.
	Ready
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Source supplies the buffers to compose.
type Source interface {
	Snapshot() (markup, style string)
}

// Slot is the document currently displayed and the generation counter that
// guards it.
type Slot struct {
	Document   Document
	Generation uint64
}

// Renderer owns the preview slot. Every refresh bumps the generation; a
// composition whose generation was overtaken before it finished is dropped.
type Renderer struct {
	mu       sync.Mutex
	src      Source
	frame    Frame
	compose  func(markup, style string) Document
	slot     Slot
	state    State
	rejected bool
	lastErr  error
}

// NewRenderer returns an Idle renderer that composes from src and displays
// into frame. A nil composer gets a private one.
func NewRenderer(src Source, composer *Composer, frame Frame) *Renderer {
	if composer == nil {
		composer = &Composer{}
	}
	return &Renderer{
		src:     src,
		frame:   frame,
		compose: composer.Compose,
	}
}

// RequestRefresh composes the buffers and displays the result. It reports
// whether the new document was shown. A rejected frame leaves the renderer
// Idle and further requests do nothing until Attach supplies a new frame.
func (r *Renderer) RequestRefresh() (Document, bool) {
	r.mu.Lock()
	if r.rejected || r.frame == nil {
		r.mu.Unlock()
		return Document{}, false
	}
	r.slot.Generation++
	gen := r.slot.Generation
	r.state = Composing
	r.mu.Unlock()

	markup, style := r.src.Snapshot()
	doc := r.compose(markup, style)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.slot.Generation || r.rejected {
		return Document{}, false
	}

	if err := r.frame.Load(doc, doc.Key(), SandboxAllowScripts); err != nil {
		r.reject(err)
		return Document{}, false
	}
	r.slot.Document = doc
	r.state = Ready
	return doc, true
}

func (r *Renderer) reject(err error) {
	r.rejected = true
	r.slot.Document = Document{}
	r.state = Idle
	if !errors.Is(err, ErrFrameRejected) {
		err = fmt.Errorf("%w: %v", ErrFrameRejected, err)
	}
	r.lastErr = err
}

// Attach binds a new frame, clearing any earlier rejection. The slot keeps
// its generation so stale compositions stay stale.
func (r *Renderer) Attach(frame Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = frame
	r.rejected = false
	r.lastErr = nil
	r.slot.Document = Document{}
	r.state = Idle
}

// Detach drops the frame; refresh requests do nothing until Attach.
func (r *Renderer) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = nil
	r.slot.Document = Document{}
	r.state = Idle
}

// Slot returns a copy of the preview slot.
func (r *Renderer) Slot() Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slot
}

// Current returns the displayed document, if any.
func (r *Renderer) Current() (Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slot.Document, r.state == Ready
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns why the frame was rejected, or nil.
func (r *Renderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
