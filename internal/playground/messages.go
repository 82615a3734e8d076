package playground

import (
	"github.com/ziadkadry99/canvas/internal/editor"
	"github.com/ziadkadry99/canvas/internal/layout"
	"github.com/ziadkadry99/canvas/internal/source"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type     string           `json:"type"`
	HasModel bool             `json:"has_model,omitempty"` // mount
	Text     string           `json:"text,omitempty"`      // edit
	Cursor   *editor.Position `json:"cursor,omitempty"`    // edit, cursor, mount
	Kind     source.Kind      `json:"kind,omitempty"`      // switch
	Width    int              `json:"width,omitempty"`     // layout
	Pane     layout.Pane      `json:"pane,omitempty"`      // pane
	Key      string           `json:"key,omitempty"`       // key
	Ctrl     bool             `json:"ctrl,omitempty"`
	Meta     bool             `json:"meta,omitempty"`
	Mode     string           `json:"mode,omitempty"` // theme, system_theme
	Name     string           `json:"name,omitempty"` // snippet
}

// serverMessage is the outgoing WebSocket message format.
type serverMessage struct {
	Type     string           `json:"type"`
	Session  string           `json:"session,omitempty"`
	Client   string           `json:"client,omitempty"`
	Text     *string          `json:"text,omitempty"`
	Cursor   *editor.Position `json:"cursor,omitempty"`
	Language editor.Language  `json:"language,omitempty"`
	Name     string           `json:"name,omitempty"`
	Scheme   *theme.Scheme    `json:"scheme,omitempty"`
	Key      string           `json:"key,omitempty"`
	URL      string           `json:"url,omitempty"`
	Sandbox  string           `json:"sandbox,omitempty"`
	Layout   *layout.View     `json:"layout,omitempty"`
	Download *download        `json:"download,omitempty"`
	Theme    theme.Mode       `json:"theme,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// download carries an export artifact to the browser, which saves it
// through a Blob.
type download struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// sender delivers messages to one browser.
type sender interface {
	send(msg serverMessage) error
}
