package playground

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/canvas/internal/preview"
	"github.com/ziadkadry99/canvas/internal/session"
	"github.com/ziadkadry99/canvas/internal/snippets"
	"github.com/ziadkadry99/canvas/internal/theme"
)

// handlePreview serves the document currently loaded in a session's
// frame. Only the latest key resolves; the sandbox is enforced through CSP
// on every response.
func (p *Playground) handlePreview(w http.ResponseWriter, r *http.Request) {
	c, ok := p.client(chi.URLParam(r, "session"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	doc, policy, ok := c.frame.document(chi.URLParam(r, "key"))
	if !ok {
		http.Error(w, "preview superseded", http.StatusGone)
		return
	}
	writePreview(w, doc, policy)
}

// handleLatestPreview serves whatever the session's frame shows, for
// opening the preview in its own tab.
func (p *Playground) handleLatestPreview(w http.ResponseWriter, r *http.Request) {
	c, ok := p.client(chi.URLParam(r, "session"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	doc, policy, ok := c.frame.latest()
	if !ok {
		http.Error(w, "nothing to preview yet", http.StatusNotFound)
		return
	}
	writePreview(w, doc, policy)
}

func writePreview(w http.ResponseWriter, doc preview.Document, policy preview.SandboxPolicy) {
	h := w.Header()
	h.Set("Content-Security-Policy", policy.CSP())
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	w.Write([]byte(doc.HTML()))
}

func (p *Playground) handleState(w http.ResponseWriter, r *http.Request) {
	s, ok := p.session(w, r)
	if !ok {
		return
	}
	st, err := s.State()
	if err != nil {
		writeError(w, http.StatusGone, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (p *Playground) handleExport(w http.ResponseWriter, r *http.Request) {
	s, ok := p.session(w, r)
	if !ok {
		return
	}
	a := s.Export()
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", a.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
	a.WriteTo(w)
}

func (p *Playground) handleLoadSnippet(w http.ResponseWriter, r *http.Request) {
	s, ok := p.session(w, r)
	if !ok {
		return
	}
	snip, err := p.snippets.Get(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := s.LoadBuffers(snip.Markup, snip.Style); err != nil {
		writeError(w, http.StatusGone, err)
		return
	}
	writeJSON(w, http.StatusOK, snip)
}

func (p *Playground) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := p.manager.Get(chi.URLParam(r, "session"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return s, true
}

// themeResponse is the JSON response for the theme endpoints.
type themeResponse struct {
	Client string     `json:"client"`
	Mode   theme.Mode `json:"mode"`
	Stored bool       `json:"stored"`
}

func (p *Playground) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "client is required"})
		return
	}

	resp := themeResponse{Client: clientID, Mode: theme.DefaultMode}
	if p.prefs != nil {
		m, ok, err := p.prefs.Load(r.Context(), clientID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if ok {
			resp.Mode, resp.Stored = m, true
		}
	}
	if live := p.manager.ForClient(clientID); len(live) > 0 {
		resp.Mode = live[0].Theme()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (p *Playground) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "client is required"})
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	m, err := theme.ParseMode(body.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	live := p.manager.ForClient(clientID)
	for _, s := range live {
		if err := s.SetTheme(m); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	if len(live) == 0 && p.prefs != nil {
		if err := p.prefs.Save(r.Context(), clientID, m); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, themeResponse{Client: clientID, Mode: m, Stored: p.prefs != nil})
}

// handleClearTheme forgets the stored choice so new sessions follow the
// system preference again.
func (p *Playground) handleClearTheme(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "client is required"})
		return
	}
	if p.prefs != nil {
		if err := p.prefs.Clear(r.Context(), clientID); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	for _, s := range p.manager.ForClient(clientID) {
		s.ClearTheme()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *Playground) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	m, err := theme.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	css, err := theme.CSS(m)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(css))
}

func (p *Playground) handleSnippets(w http.ResponseWriter, r *http.Request) {
	list := p.snippets.List()
	if list == nil {
		list = []snippets.Snippet{}
	}
	writeJSON(w, http.StatusOK, list)
}

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	LiveSessions int `json:"live_sessions"`
	session.Stats
}

func (p *Playground) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{LiveSessions: p.manager.Len()}
	if p.stats != nil {
		st, err := p.stats.Stats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Stats = st
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, status int, err error) {
	if errors.Is(err, session.ErrClosed) {
		status = http.StatusGone
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
