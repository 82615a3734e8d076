// Package export serializes the playground buffers into a downloadable,
// standalone index.html.
package export

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileName is the name of the exported artifact.
	FileName = "index.html"
	// ContentType is the artifact's media type.
	ContentType = "text/html; charset=utf-8"
	// DefaultTitle is used when no title is configured.
	DefaultTitle = "My Project"
)

// Artifact is a serialized export ready to be downloaded or written.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// ContentDisposition returns the header value that makes browsers save the
// artifact under its name.
func (a Artifact) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", a.Name)
}

// Service builds export artifacts. The zero value uses DefaultTitle.
type Service struct {
	Title string
}

// New returns a Service that titles documents with title.
func New(title string) *Service {
	return &Service{Title: title}
}

// Serialize wraps markup and style in a complete document. Unlike the
// preview, no reset rule is added.
func (s *Service) Serialize(markup, style string) []byte {
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	b.Grow(len(markup) + len(style) + 256)
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"UTF-8\">\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	b.WriteString("  <title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n")
	b.WriteString("  <style>\n")
	b.WriteString(style)
	b.WriteString("\n  </style>\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString(markup)
	b.WriteString("\n</body>\n")
	b.WriteString("</html>")
	return []byte(b.String())
}

// Export returns the artifact for markup and style.
func (s *Service) Export(markup, style string) Artifact {
	return Artifact{
		Name:        FileName,
		ContentType: ContentType,
		Body:        s.Serialize(markup, style),
	}
}

// WriteTo writes the artifact body to w.
func (a Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Body)
	return int64(n), err
}

// WriteFile writes the artifact into dir, creating dir if needed, and
// returns the written path.
func (a Artifact) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Body, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
