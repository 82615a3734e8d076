// Package session binds the buffers, editor controller, preview renderer
// and layout of one connected playground client, and runs them on a single
// event loop.
package session

import (
	"errors"
	"log"
	"time"

	"github.com/ziadkadry99/canvas/internal/editor"
	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/layout"
	"github.com/ziadkadry99/canvas/internal/preview"
	"github.com/ziadkadry99/canvas/internal/source"
	"github.com/ziadkadry99/canvas/internal/theme"
)

var (
	// ErrNotFound is returned for an unknown session id.
	ErrNotFound = errors.New("session not found")
	// ErrClosed is returned when calling into a closed session.
	ErrClosed = errors.New("session closed")
)

// Options configures new sessions.
type Options struct {
	Breakpoint  int
	AutoRefresh bool
	Debounce    time.Duration
	ExportTitle string
	// DefaultTheme applies until the client stores a choice or reports its
	// system preference. Empty keeps theme.DefaultMode.
	DefaultTheme theme.Mode
}

// Notifier receives session events that the client has to act on.
type Notifier interface {
	LayoutChanged(v layout.View)
	ExportReady(a export.Artifact)
}

// Session is one client's playground. Methods are safe for concurrent use;
// they run on the session's event loop.
type Session struct {
	ID       string
	ClientID string

	store    *source.Store
	pref     *theme.Tracker
	ctrl     *editor.Controller
	renderer *preview.Renderer
	layout   *layout.Layout
	exporter *export.Service
	debounce *preview.Debouncer
	stats    StatsRecorder

	opts     Options
	notifier Notifier
	loop     *loop
}

// StatsRecorder counts session activity. Buffer contents are never
// recorded.
type StatsRecorder interface {
	RecordRefresh(id string)
	RecordExport(id string)
}

func newSession(id, clientID string, pref *theme.Tracker, composer *preview.Composer, opts Options, stats StatsRecorder) *Session {
	s := &Session{
		ID:       id,
		ClientID: clientID,
		store:    source.NewStore(),
		pref:     pref,
		layout:   layout.New(opts.Breakpoint),
		exporter: export.New(opts.ExportTitle),
		stats:    stats,
		opts:     opts,
		loop:     newLoop(),
	}
	s.ctrl = editor.NewController(s.store, loopPreference{Tracker: pref, post: s.loop.post}, theme.NewRegistry())
	s.renderer = preview.NewRenderer(s.store, composer, nil)

	if opts.AutoRefresh {
		delay := opts.Debounce
		if delay <= 0 {
			delay = 300 * time.Millisecond
		}
		s.debounce = preview.NewDebouncer(delay, func() {
			s.loop.post(s.autoRefresh)
		})
		s.store.Subscribe(func(source.Kind, string) {
			if !s.layout.View().Compact {
				s.debounce.Trigger()
			}
		})
	}
	return s
}

// loopPreference delivers theme changes on the session loop.
type loopPreference struct {
	*theme.Tracker
	post func(func())
}

func (p loopPreference) Subscribe(fn func(theme.Mode)) func() {
	return p.Tracker.Subscribe(func(m theme.Mode) {
		p.post(func() { fn(m) })
	})
}

// Attach mounts the client's editing surface and preview frame. A surface
// without a model leaves the editor inert until the next Attach.
func (s *Session) Attach(surface editor.Surface, frame preview.Frame, n Notifier) error {
	return s.loop.call(func() {
		s.notifier = n
		if err := s.ctrl.Mount(surface); err != nil {
			log.Printf("session %s: editor surface unavailable: %v", s.ID, err)
		}
		s.renderer.Attach(frame)
		s.notifyLayout()
	})
}

// Detach unmounts the surface and frame, keeping the buffers.
func (s *Session) Detach() error {
	return s.loop.call(func() {
		if s.debounce != nil {
			s.debounce.Cancel()
		}
		s.ctrl.Unmount()
		s.renderer.Detach()
		s.notifier = nil
	})
}

// Do runs fn on the session loop and waits for it. fn must not call back
// into the session.
func (s *Session) Do(fn func()) error {
	return s.loop.call(fn)
}

// SwitchTo shows a buffer in the editor.
func (s *Session) SwitchTo(kind source.Kind) error {
	return s.loop.call(func() { s.ctrl.SwitchTo(kind) })
}

// MoveCursor records the caret reported by the editor.
func (s *Session) MoveCursor(pos editor.Position) error {
	return s.loop.call(func() { s.ctrl.OnCursorMoved(pos) })
}

// Refresh recomposes and shows the preview. Every call is a full,
// independent composition.
func (s *Session) Refresh() error {
	return s.loop.call(s.refresh)
}

func (s *Session) refresh() {
	if _, ok := s.renderer.RequestRefresh(); ok && s.stats != nil {
		s.stats.RecordRefresh(s.ID)
	}
}

func (s *Session) autoRefresh() {
	if s.layout.View().Compact {
		return
	}
	s.refresh()
}

// Resize applies the client's viewport width.
func (s *Session) Resize(width int) error {
	return s.loop.call(func() {
		if s.layout.Resize(width) {
			s.notifyLayout()
		}
	})
}

// ShowPreview switches a compact layout to the preview pane, refreshing
// it once on entry.
func (s *Session) ShowPreview() error {
	return s.loop.call(s.showPreview)
}

func (s *Session) showPreview() {
	if !s.layout.ShowPreview() {
		return
	}
	s.notifyLayout()
	s.refresh()
}

// ShowEditor returns a compact layout to the editor pane.
func (s *Session) ShowEditor() error {
	return s.loop.call(func() {
		if s.layout.ShowEditor() {
			s.notifyLayout()
		}
	})
}

// Key dispatches a keyboard shortcut.
func (s *Session) Key(k layout.Key) (layout.Action, error) {
	var action layout.Action
	err := s.loop.call(func() {
		action = s.layout.Shortcut(k)
		switch action {
		case layout.ActionExport:
			if s.notifier != nil {
				s.notifier.ExportReady(s.export())
			}
		case layout.ActionShowPreview:
			s.showPreview()
		}
	})
	return action, err
}

// LoadBuffers replaces both buffers, as when loading a starter snippet.
func (s *Session) LoadBuffers(markup, style string) error {
	return s.loop.call(func() {
		s.store.Write(source.Markup, markup)
		s.store.Write(source.Style, style)
	})
}

// SetTheme stores an explicit theme choice.
func (s *Session) SetTheme(m theme.Mode) error {
	return s.pref.Set(m)
}

// ToggleTheme flips the stored theme.
func (s *Session) ToggleTheme() error {
	return s.pref.Toggle()
}

// ClearTheme forgets the stored choice so the host's color-scheme
// preference applies again. The caller clears the persisted row.
func (s *Session) ClearTheme() {
	s.pref.Forget()
}

// SystemTheme reports the host's color-scheme preference.
func (s *Session) SystemTheme(m theme.Mode) {
	s.pref.SetSystem(m)
}

// Theme returns the current theme mode.
func (s *Session) Theme() theme.Mode {
	return s.pref.Get()
}

// Export returns the downloadable artifact for the current buffers.
func (s *Session) Export() export.Artifact {
	return s.export()
}

func (s *Session) export() export.Artifact {
	markup, style := s.store.Snapshot()
	if s.stats != nil {
		s.stats.RecordExport(s.ID)
	}
	return s.exporter.Export(markup, style)
}

// Preview returns the currently displayed preview document.
func (s *Session) Preview() (preview.Document, bool) {
	return s.renderer.Current()
}

// Buffer returns the text of one buffer.
func (s *Session) Buffer(kind source.Kind) string {
	return s.store.Read(kind)
}

// State describes the session for clients and diagnostics.
type State struct {
	ID         string           `json:"id"`
	Editor     editor.ViewState `json:"editor"`
	Layout     layout.View      `json:"layout"`
	Theme      theme.Mode       `json:"theme"`
	Preview    string           `json:"preview"`
	Generation uint64           `json:"generation"`
}

// State snapshots the session on its loop.
func (s *Session) State() (State, error) {
	var st State
	err := s.loop.call(func() {
		slot := s.renderer.Slot()
		st = State{
			ID:         s.ID,
			Editor:     s.ctrl.State(),
			Layout:     s.layout.View(),
			Theme:      s.pref.Get(),
			Preview:    s.renderer.State().String(),
			Generation: slot.Generation,
		}
	})
	return st, err
}

func (s *Session) notifyLayout() {
	if s.notifier != nil {
		s.notifier.LayoutChanged(s.layout.View())
	}
}

// Close stops the session loop. Further calls return ErrClosed.
func (s *Session) Close() {
	if s.debounce != nil {
		s.debounce.Cancel()
	}
	s.loop.stop()
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.loop.stopped()
}
