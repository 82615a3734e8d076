package editor

import (
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column caret location.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ClampTo returns the nearest valid position inside text. Columns count
// runes, and the column just past the last rune of a line is valid.
func (p Position) ClampTo(text string) Position {
	lines := strings.Split(text, "\n")

	line := p.Line
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	maxCol := utf8.RuneCountInString(lines[line-1]) + 1
	col := p.Column
	if col < 1 {
		col = 1
	}
	if col > maxCol {
		col = maxCol
	}
	return Position{Line: line, Column: col}
}
