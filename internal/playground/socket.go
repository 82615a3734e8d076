package playground

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/canvas/internal/editor"
	"github.com/ziadkadry99/canvas/internal/layout"
	"github.com/ziadkadry99/canvas/internal/session"
	"github.com/ziadkadry99/canvas/internal/theme"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func logf(format string, args ...any) {
	log.Printf("playground: "+format, args...)
}

// conversation is the per-connection state touched only by the read loop.
type conversation struct {
	c       *client
	s       *session.Session
	surface *wsSurface
}

func (p *Playground) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// The request context ends with the handler; session bookkeeping has
	// to outlive the read loop's last error.
	ctx := context.WithoutCancel(r.Context())

	s, err := p.manager.Create(ctx, clientID)
	if err != nil {
		conn.WriteJSON(serverMessage{Type: "error", Error: "failed to create session: " + err.Error()})
		return
	}

	c := newClient(conn, s.ID, clientID)
	p.track(c)
	defer func() {
		p.untrack(c)
		c.close()
		s.Detach()
		p.manager.Remove(ctx, s.ID)
	}()

	c.notify(serverMessage{Type: "session", Session: s.ID, Client: clientID, Theme: s.Theme()})

	conv := &conversation{c: c, s: s}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logf("websocket read: %v", err)
			}
			return
		}

		var req clientMessage
		if err := json.Unmarshal(msg, &req); err != nil {
			c.notify(serverMessage{Type: "error", Error: "invalid message format"})
			continue
		}

		if p.Verbose {
			logf("session %s: %s", s.ID, req.Type)
		}
		if err := p.dispatch(conv, req); err != nil {
			if errors.Is(err, session.ErrClosed) {
				return
			}
			c.notify(serverMessage{Type: "error", Error: err.Error()})
		}
	}
}

func (p *Playground) dispatch(conv *conversation, req clientMessage) error {
	s := conv.s
	switch req.Type {
	case "mount":
		conv.surface = newSurface(conv.c, req.HasModel, req.Cursor)
		if err := s.Attach(conv.surface, conv.c.frame, conv.c); err != nil {
			return err
		}
		if !req.HasModel {
			return editor.ErrNoModel
		}
		return nil

	case "edit":
		surf, err := conv.mounted()
		if err != nil {
			return err
		}
		return s.Do(func() { surf.receive(req.Text, req.Cursor) })

	case "cursor":
		surf, err := conv.mounted()
		if err != nil {
			return err
		}
		if req.Cursor == nil {
			return errors.New("cursor is required")
		}
		pos := *req.Cursor
		if err := s.Do(func() { surf.moveCursor(pos) }); err != nil {
			return err
		}
		return s.MoveCursor(pos)

	case "switch":
		if !req.Kind.Valid() {
			return errors.New("unknown buffer: " + string(req.Kind))
		}
		return s.SwitchTo(req.Kind)

	case "refresh":
		return s.Refresh()

	case "layout":
		return s.Resize(req.Width)

	case "pane":
		switch req.Pane {
		case layout.PanePreview:
			return s.ShowPreview()
		case layout.PaneEditor:
			return s.ShowEditor()
		}
		return errors.New("unknown pane: " + string(req.Pane))

	case "key":
		_, err := s.Key(layout.Key{Key: req.Key, Ctrl: req.Ctrl, Meta: req.Meta})
		return err

	case "theme":
		if req.Mode == "toggle" {
			return s.ToggleTheme()
		}
		m, err := theme.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		return s.SetTheme(m)

	case "system_theme":
		m, err := theme.ParseMode(req.Mode)
		if err != nil {
			return err
		}
		s.SystemTheme(m)
		return nil

	case "snippet":
		snip, err := p.snippets.Get(req.Name)
		if err != nil {
			return err
		}
		return s.LoadBuffers(snip.Markup, snip.Style)

	default:
		return errors.New("unknown message type: " + req.Type)
	}
}

func (conv *conversation) mounted() (*wsSurface, error) {
	if conv.surface == nil || !conv.surface.HasModel() {
		return nil, editor.ErrNoModel
	}
	return conv.surface, nil
}
