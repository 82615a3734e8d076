// Package preview builds the isolated preview document from the markup and
// style buffers and decides when it is rebuilt and shown.
package preview

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// ResetRule zeroes margin and padding and switches every element to
// border-box sizing. It precedes the user's styles in previews only.
const ResetRule = `* {
      margin: 0;
      padding: 0;
      box-sizing: border-box;
    }`

// Document is an immutable composed preview. Two documents composed from
// the same markup and style have identical HTML and differ only in
// Sequence.
type Document struct {
	markup   string
	style    string
	html     string
	sequence uint64
}

// Markup returns the markup the document was composed from.
func (d Document) Markup() string { return d.markup }

// Style returns the style text the document was composed from.
func (d Document) Style() string { return d.style }

// HTML returns the full standalone document.
func (d Document) HTML() string { return d.html }

// Sequence is the composer's monotonic stamp for this document.
func (d Document) Sequence() uint64 { return d.sequence }

// Key identifies the document to the rendering surface so each new document
// is loaded as a brand-new frame instance.
func (d Document) Key() string {
	return strconv.FormatUint(d.sequence, 10)
}

// IsZero reports whether d was never composed.
func (d Document) IsZero() bool { return d.sequence == 0 }

// Composer stamps each composed document with a monotonic sequence number.
// The zero value is ready to use and safe for concurrent use.
type Composer struct {
	seq atomic.Uint64
}

// Compose embeds style after the reset rule and markup in the body. Both are
// inserted verbatim; nothing is parsed or sanitized.
func (c *Composer) Compose(markup, style string) Document {
	return Document{
		markup:   markup,
		style:    style,
		html:     render(markup, style),
		sequence: c.seq.Add(1),
	}
}

func render(markup, style string) string {
	var b strings.Builder
	b.Grow(len(markup) + len(style) + 320)
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("  <style>\n    ")
	b.WriteString(ResetRule)
	b.WriteString("\n    ")
	b.WriteString(style)
	b.WriteString("\n  </style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n  ")
	b.WriteString(markup)
	b.WriteString("\n</body>\n")
	b.WriteString("</html>")
	return b.String()
}
