package layout

// Key is a key press reported by the browser.
type Key struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

// Action is what a shortcut asks the playground to do.
type Action string

const (
	ActionNone        Action = ""
	ActionExport      Action = "export"
	ActionShowPreview Action = "show_preview"
)

// Shortcut maps a key press to an action. Ctrl and Cmd are interchangeable.
// Keys match the browser's KeyboardEvent.key exactly, so Shift+S ("S") is
// not the save shortcut. The preview shortcut only applies to the compact
// layout, where the preview is otherwise hidden.
func (l *Layout) Shortcut(k Key) Action {
	if !k.Ctrl && !k.Meta {
		return ActionNone
	}
	switch k.Key {
	case "s":
		return ActionExport
	case "Enter":
		if l.view.Compact {
			return ActionShowPreview
		}
	}
	return ActionNone
}
