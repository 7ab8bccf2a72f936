package session

import (
	"sync"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

// Channel groups the connections subscribed to one room. It may hold zero
// subscribers; broadcasts to an empty channel are a no-op.
type Channel struct {
	ID string

	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewChannel(id string) *Channel {
	return &Channel{ID: id, clients: make(map[*Client]struct{})}
}

func (ch *Channel) Join(c *Client) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	ch.clients[c] = struct{}{}
}

func (ch *Channel) Leave(c *Client) int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	delete(ch.clients, c)
	return len(ch.clients)
}

func (ch *Channel) ClientCount() int {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	return len(ch.clients)
}

// Broadcast delivers a frame to every member except sender.
func (ch *Channel) Broadcast(sender *Client, frame models.Frame) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for c := range ch.clients {
		if c == sender {
			continue
		}
		c.Send(frame)
	}
}

// BroadcastAll delivers a frame to every member, sender included.
func (ch *Channel) BroadcastAll(frame models.Frame) {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for c := range ch.clients {
		c.Send(frame)
	}
}
