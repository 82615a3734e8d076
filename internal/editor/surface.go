// Package editor maps one shared editing surface onto the markup and style
// buffers, keeping displayed text, language mode, color scheme and cursor
// consistent when the active buffer changes.
package editor

import (
	"errors"

	"github.com/ziadkadry99/canvas/internal/theme"
)

// ErrNoModel is returned by Mount when the surface has no content model yet.
var ErrNoModel = errors.New("editing surface has no model")

// Surface is the editing widget capability. Implementations may invoke the
// content-changed callback synchronously from SetText.
type Surface interface {
	// HasModel reports whether the surface has a content model to edit.
	HasModel() bool

	Text() string
	SetText(text string)

	// Cursor returns the caret position; ok is false when the surface has
	// no caret (for example before it was ever focused).
	Cursor() (pos Position, ok bool)
	SetCursor(pos Position)

	SetLanguage(lang Language)

	// OnContentChanged registers fn for user edits and returns a func that
	// removes it.
	OnContentChanged(fn func(text string)) (unregister func())

	// DefineColorScheme registers a named scheme; redefining a name is
	// harmless but callers avoid it.
	DefineColorScheme(name string, scheme theme.Scheme)
	ApplyColorScheme(name string)
}
