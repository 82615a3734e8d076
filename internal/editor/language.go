package editor

import (
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/ziadkadry99/canvas/internal/source"
)

// Language is a syntax-highlighting mode understood by the surface.
type Language string

const (
	HTML Language = "html"
	CSS  Language = "css"
)

// LanguageFor returns the language mode used to edit a buffer.
func LanguageFor(kind source.Kind) Language {
	if kind == source.Style {
		return CSS
	}
	return HTML
}

// DisplayName returns the lexer's human readable name, or the id when no
// lexer is registered for it.
func (l Language) DisplayName() string {
	if lx := lexers.Get(string(l)); lx != nil {
		return lx.Config().Name
	}
	return string(l)
}
