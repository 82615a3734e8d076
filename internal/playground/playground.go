// Package playground serves the browser playground: the editor page, the
// WebSocket that drives each session, sandboxed previews and the
// export, theme and snippet APIs.
package playground

import (
	"context"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ziadkadry99/canvas/internal/session"
	"github.com/ziadkadry99/canvas/internal/snippets"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// PreferenceStore persists theme preferences per client.
type PreferenceStore interface {
	theme.Persister
	Clear(ctx context.Context, clientID string) error
}

// Playground wires sessions to HTTP and WebSocket routes.
type Playground struct {
	manager  *session.Manager
	snippets *snippets.Library
	prefs    PreferenceStore
	stats    *session.Store
	help     *helpPages

	// Verbose logs every socket message.
	Verbose bool

	mu      sync.RWMutex
	clients map[string]*client
}

// New creates a Playground. prefs and stats may be nil; a nil library
// serves the builtin snippets.
func New(manager *session.Manager, lib *snippets.Library, prefs PreferenceStore, stats *session.Store) *Playground {
	if lib == nil {
		lib = snippets.Builtin()
	}
	return &Playground{
		manager:  manager,
		snippets: lib,
		prefs:    prefs,
		stats:    stats,
		help:     newHelpPages(),
		clients:  make(map[string]*client),
	}
}

// RegisterRoutes mounts all playground routes onto the given router.
func (p *Playground) RegisterRoutes(r chi.Router) {
	r.Get("/", p.ServeIndex)
	r.Get("/help", p.handleHelp)
	r.Get("/ws/editor", p.handleWebSocket)
	r.Get("/preview/{session}", p.handleLatestPreview)
	r.Get("/preview/{session}/{key}", p.handlePreview)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/api/sessions/{session}", p.handleState)
		r.Get("/api/sessions/{session}/export", p.handleExport)
		r.Post("/api/sessions/{session}/snippets/*", p.handleLoadSnippet)

		r.Get("/api/theme", p.handleGetTheme)
		r.Put("/api/theme", p.handlePutTheme)
		r.Delete("/api/theme", p.handleClearTheme)
		r.Get("/api/themes/{mode}.css", p.handleThemeCSS)

		r.Get("/api/snippets", p.handleSnippets)
		r.Get("/api/stats", p.handleStats)
	})
}

func (p *Playground) track(c *client) {
	p.mu.Lock()
	p.clients[c.sessionID] = c
	p.mu.Unlock()
}

func (p *Playground) untrack(c *client) {
	p.mu.Lock()
	delete(p.clients, c.sessionID)
	p.mu.Unlock()
}

func (p *Playground) client(sessionID string) (*client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.clients[sessionID]
	return c, ok
}

// CloseConnections hangs up every editor socket. http.Server.Shutdown does
// not track hijacked connections, so the caller does this on shutdown.
func (p *Playground) CloseConnections() {
	p.mu.RLock()
	clients := make([]*client, 0, len(p.clients))
	for _, c := range p.clients {
		clients = append(clients, c)
	}
	p.mu.RUnlock()

	for _, c := range clients {
		c.hangUp()
	}
}
