package playground

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/canvas/internal/theme"
)

//go:embed help.md
var helpMarkdown []byte

var helpTemplate = template.Must(template.New("help").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Canvas help</title>
  <style>
    body { max-width: 760px; margin: 0 auto; padding: 2rem 1.25rem; font-family: system-ui, sans-serif; line-height: 1.6; background: {{.Background}}; color: {{.Foreground}}; }
    a { color: {{.Accent}}; }
    pre { padding: 1rem; border-radius: 8px; overflow-x: auto; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid {{.Border}}; padding: 0.4rem 0.8rem; text-align: left; }
  </style>
</head>
<body>
{{.Body}}
<p><a href="/">Back to the playground</a></p>
</body>
</html>
`))

// helpPages renders the help page once per theme mode.
type helpPages struct {
	mu    sync.Mutex
	pages map[theme.Mode][]byte
}

func newHelpPages() *helpPages {
	return &helpPages{pages: make(map[theme.Mode][]byte)}
}

func (h *helpPages) get(m theme.Mode) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if page, ok := h.pages[m]; ok {
		return page, nil
	}
	page, err := renderHelp(m)
	if err != nil {
		return nil, err
	}
	h.pages[m] = page
	return page, nil
}

func renderHelp(m theme.Mode) ([]byte, error) {
	// Code blocks use the same palette as the editor.
	theme.Style(m)

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(theme.SchemeName(m)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert(helpMarkdown, &body); err != nil {
		return nil, fmt.Errorf("rendering help: %w", err)
	}

	colors := theme.SchemeFor(m).Colors
	var page bytes.Buffer
	err := helpTemplate.Execute(&page, struct {
		Body                                   template.HTML
		Background, Foreground, Accent, Border template.CSS
	}{
		Body:       template.HTML(body.String()),
		Background: template.CSS(colors["editor.background"]),
		Foreground: template.CSS(colors["editor.foreground"]),
		Accent:     template.CSS(colors["editorCursor.foreground"]),
		Border:     template.CSS(colors["editorWidget.border"]),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering help page: %w", err)
	}
	return page.Bytes(), nil
}

// handleHelp renders the help page in the requested theme, the client's
// stored theme, or the default.
func (p *Playground) handleHelp(w http.ResponseWriter, r *http.Request) {
	mode := theme.DefaultMode
	if q := r.URL.Query().Get("theme"); q != "" {
		if m, err := theme.ParseMode(q); err == nil {
			mode = m
		}
	} else if clientID := r.URL.Query().Get("client"); clientID != "" && p.prefs != nil {
		if m, ok, err := p.prefs.Load(r.Context(), clientID); err == nil && ok {
			mode = m
		}
	}

	page, err := p.help.get(mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
