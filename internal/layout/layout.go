// Package layout tracks whether the playground is shown side by side or in
// the compact single-pane presentation, and which pane is visible.
package layout

// DefaultBreakpoint is the widest viewport, in CSS pixels, that still uses
// the compact layout.
const DefaultBreakpoint = 768

// Pane names one half of the playground.
type Pane string

const (
	PaneEditor  Pane = "editor"
	PanePreview Pane = "preview"
)

// View is the visible arrangement. Pane only matters when Compact is set.
type View struct {
	Compact bool `json:"compact"`
	Pane    Pane `json:"pane"`
}

// EditorVisible reports whether the editor pane is on screen.
func (v View) EditorVisible() bool {
	return !v.Compact || v.Pane == PaneEditor
}

// PreviewVisible reports whether the preview pane is on screen.
func (v View) PreviewVisible() bool {
	return !v.Compact || v.Pane == PanePreview
}

// Layout is the layout state machine. It is not safe for concurrent use.
type Layout struct {
	breakpoint int
	view       View
}

// New returns a split layout. A non-positive breakpoint uses
// DefaultBreakpoint.
func New(breakpoint int) *Layout {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return &Layout{breakpoint: breakpoint, view: View{Pane: PaneEditor}}
}

// View returns the current arrangement.
func (l *Layout) View() View { return l.view }

// Breakpoint returns the compact threshold.
func (l *Layout) Breakpoint() int { return l.breakpoint }

// Resize applies a new viewport width and reports whether the view changed.
// Leaving the compact layout always returns to the editor pane, so the
// next compact session starts in the editor.
func (l *Layout) Resize(width int) bool {
	prev := l.view
	l.view.Compact = width <= l.breakpoint
	if !l.view.Compact {
		l.view.Pane = PaneEditor
	}
	return l.view != prev
}

// ShowPreview switches the compact layout to the preview pane. It reports
// whether the preview was entered, in which case the caller refreshes it
// exactly once. In the split layout the preview is always visible and
// nothing changes.
func (l *Layout) ShowPreview() bool {
	if !l.view.Compact || l.view.Pane == PanePreview {
		return false
	}
	l.view.Pane = PanePreview
	return true
}

// ShowEditor returns the compact layout to the editor pane.
func (l *Layout) ShowEditor() bool {
	if l.view.Pane == PaneEditor {
		return false
	}
	l.view.Pane = PaneEditor
	return true
}
