package playground

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/canvas/internal/export"
	"github.com/ziadkadry99/canvas/internal/layout"
)

const writeWait = 10 * time.Second

var errConnClosed = errors.New("connection closed")

// client is one connected browser page. It is the session's Notifier and
// the transport for its surface and frame.
type client struct {
	sessionID string
	clientID  string
	frame     *wsFrame

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newClient(conn *websocket.Conn, sessionID, clientID string) *client {
	c := &client{sessionID: sessionID, clientID: clientID, conn: conn}
	c.frame = newFrame(sessionID, c)
	return c
}

// send writes one message. gorilla/websocket allows a single concurrent
// writer, so writes are serialized.
func (c *client) send(msg serverMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnClosed
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.frame.clear()
}

// hangUp closes the connection, unblocking the read loop.
func (c *client) hangUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.conn.Close()
}

func (c *client) LayoutChanged(v layout.View) {
	c.notify(serverMessage{Type: "layout", Layout: &v})
}

func (c *client) ExportReady(a export.Artifact) {
	c.notify(serverMessage{Type: "download", Download: &download{
		FileName:    a.Name,
		ContentType: a.ContentType,
		Body:        string(a.Body),
	}})
}

func (c *client) notify(msg serverMessage) {
	if err := c.send(msg); err != nil && !errors.Is(err, errConnClosed) {
		logf("session %s: sending %s: %v", c.sessionID, msg.Type, err)
	}
}
