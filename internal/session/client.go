package session

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

// Client wraps a live transport session. A client may be joined to zero or
// more rooms; the hub records which username it declared for each.
type Client struct {
	Conn *websocket.Conn

	mu    sync.Mutex
	hook  func(models.Frame)
	rooms map[string]string // roomID -> declared username
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{Conn: conn, rooms: make(map[string]string)}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}

func (c *Client) joined(roomID, username string) {
	c.mu.Lock()
	c.rooms[roomID] = username
	c.mu.Unlock()
}

func (c *Client) left(roomID string) {
	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

// memberships returns a snapshot of the client's room -> username map.
func (c *Client) memberships() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.rooms))
	for room, name := range c.rooms {
		out[room] = name
	}
	return out
}
