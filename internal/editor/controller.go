package editor

import (
	"github.com/ziadkadry99/canvas/internal/source"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// ViewState is the controller's view of the shared surface. Cursor is only
// meaningful for the active buffer.
type ViewState struct {
	Active source.Kind `json:"active"`
	Cursor *Position   `json:"cursor,omitempty"`
}

// Controller presents exactly one buffer at a time on a mounted surface.
// It is not safe for concurrent use; callers drive it from a single event
// loop.
type Controller struct {
	store    *source.Store
	pref     theme.Preference
	registry *theme.Registry

	state ViewState
	// cursors remembers the last caret per buffer so switching back
	// restores where the user left off.
	cursors map[source.Kind]Position

	surface Surface
	// pushing is set while the controller writes text into the surface, so
	// the surface's echo of that write is not treated as a user edit.
	pushing bool

	unmount []func()
}

// NewController returns a controller showing the markup buffer. A nil
// registry gets a private one.
func NewController(store *source.Store, pref theme.Preference, registry *theme.Registry) *Controller {
	if registry == nil {
		registry = theme.NewRegistry()
	}
	return &Controller{
		store:    store,
		pref:     pref,
		registry: registry,
		state:    ViewState{Active: source.Markup},
		cursors:  make(map[source.Kind]Position),
	}
}

// Mount binds the controller to surface, replacing any previous one. A
// surface without a model leaves the controller inert and returns
// ErrNoModel.
func (c *Controller) Mount(surface Surface) error {
	c.Unmount()
	if surface == nil || !surface.HasModel() {
		return ErrNoModel
	}
	c.surface = surface

	c.applyTheme(c.mode())

	kind := c.state.Active
	surface.SetLanguage(LanguageFor(kind))
	c.syncText(kind)
	if c.state.Cursor != nil {
		c.placeCursor(*c.state.Cursor)
	}

	c.unmount = append(c.unmount,
		surface.OnContentChanged(c.OnSurfaceEdited),
		c.store.Subscribe(c.onBufferWritten).Unsubscribe,
	)
	if c.pref != nil {
		c.unmount = append(c.unmount, c.pref.Subscribe(c.applyTheme))
	}
	return nil
}

// Unmount detaches the current surface. The view state is kept for the next
// Mount.
func (c *Controller) Unmount() {
	if c.ready() {
		c.recordCursor()
	}
	for _, fn := range c.unmount {
		fn()
	}
	c.unmount = nil
	c.surface = nil
}

// Mounted reports whether a surface with a model is bound.
func (c *Controller) Mounted() bool {
	return c.ready()
}

// State returns a copy of the view state.
func (c *Controller) State() ViewState {
	s := c.state
	if s.Cursor != nil {
		pos := *s.Cursor
		s.Cursor = &pos
	}
	return s
}

// Active returns the buffer currently shown.
func (c *Controller) Active() source.Kind {
	return c.state.Active
}

// SwitchTo shows the buffer kind. Switching to the active buffer, or
// switching while no surface with a model is mounted, does nothing. The
// outgoing buffer's caret is remembered, and the incoming buffer's
// remembered caret is restored; a buffer never visited keeps the
// surface's current caret, clamped to its text.
func (c *Controller) SwitchTo(kind source.Kind) {
	if !c.ready() || !kind.Valid() || kind == c.state.Active {
		return
	}

	c.recordCursor()
	carried, hasCarried := c.surface.Cursor()

	c.state.Active = kind
	c.surface.SetLanguage(LanguageFor(kind))
	c.syncText(kind)

	if pos := c.remembered(kind); pos != nil {
		c.placeCursor(*pos)
	} else if hasCarried {
		c.placeCursor(carried)
	} else {
		c.state.Cursor = nil
	}
}

// OnSurfaceEdited stores text typed into the surface in the active buffer.
func (c *Controller) OnSurfaceEdited(text string) {
	if !c.ready() || c.pushing {
		return
	}
	c.store.Write(c.state.Active, text)
}

// OnCursorMoved records a caret reported by the surface.
func (c *Controller) OnCursorMoved(pos Position) {
	if !c.ready() {
		return
	}
	c.state.Cursor = &pos
	c.cursors[c.state.Active] = pos
}

// ApplyTheme re-applies the scheme for m without touching text or caret.
func (c *Controller) ApplyTheme(m theme.Mode) {
	if !c.ready() {
		return
	}
	c.applyTheme(m)
}

func (c *Controller) applyTheme(m theme.Mode) {
	if !c.ready() || !m.Valid() {
		return
	}
	c.registry.Ensure(m, c.surface.DefineColorScheme)
	c.surface.ApplyColorScheme(theme.SchemeName(m))
}

// onBufferWritten keeps the surface in step when the active buffer changes
// from somewhere other than the surface, such as loading a snippet.
func (c *Controller) onBufferWritten(kind source.Kind, _ string) {
	if !c.ready() || kind != c.state.Active {
		return
	}
	c.syncText(kind)
}

// syncText pushes the buffer into the surface only when they differ, so
// the surface keeps its undo history when nothing changed.
func (c *Controller) syncText(kind source.Kind) {
	want := c.store.Read(kind)
	if c.surface.Text() == want {
		return
	}
	c.pushing = true
	c.surface.SetText(want)
	c.pushing = false
}

func (c *Controller) placeCursor(pos Position) {
	pos = pos.ClampTo(c.surface.Text())
	c.surface.SetCursor(pos)
	c.state.Cursor = &pos
	c.cursors[c.state.Active] = pos
}

func (c *Controller) recordCursor() {
	if pos, ok := c.surface.Cursor(); ok {
		c.cursors[c.state.Active] = pos
		c.state.Cursor = &pos
	}
}

func (c *Controller) remembered(kind source.Kind) *Position {
	if pos, ok := c.cursors[kind]; ok {
		return &pos
	}
	return nil
}

func (c *Controller) mode() theme.Mode {
	if c.pref == nil {
		return theme.DefaultMode
	}
	return c.pref.Get()
}

func (c *Controller) ready() bool {
	return c.surface != nil && c.surface.HasModel()
}
