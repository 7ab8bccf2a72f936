package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/metrics"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories"
)

// Hub binds connections to room channels, serializes note mutations against
// the Room store, and fans the resulting state out to every subscriber.
// Operation failures are reported privately to the originating connection;
// they are never broadcast and never fatal.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]*Channel

	presence *Presence
	rooms    repositories.RoomStore
	users    repositories.UserStore
	relay    *Relay
	log      *zap.Logger
}

func NewHub(rooms repositories.RoomStore, users repositories.UserStore, log *zap.Logger) *Hub {
	return &Hub{
		channels: make(map[string]*Channel),
		presence: NewPresence(),
		rooms:    rooms,
		users:    users,
		log:      log,
	}
}

// SetRelay attaches a cross-instance presence relay. Must be called before
// the hub starts serving connections.
func (h *Hub) SetRelay(r *Relay) { h.relay = r }

// Presence exposes the tracker for read-side consumers (relay, tests).
func (h *Hub) Presence() *Presence { return h.presence }

func (h *Hub) getOrCreateChannel(id string) *Channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.channels[id]; ok {
		return ch
	}
	ch := NewChannel(id)
	h.channels[id] = ch
	return ch
}

func (h *Hub) channel(id string) (*Channel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.channels[id]
	return ch, ok
}

// JoinRoom subscribes the connection to the room's channel and announces the
// arrival. Join is presence-only: the room's existence in the store is not
// checked, because presence is a connection concept, not a storage one.
func (h *Hub) JoinRoom(c *Client, req models.JoinRoomRequest) {
	ch := h.getOrCreateChannel(req.RoomID)
	ch.Join(c)
	c.joined(req.RoomID, req.Username)

	members := h.presence.Join(req.RoomID, req.Username)
	h.broadcastAll(ch, models.Frame{Type: models.EventActiveUsers, Data: members})
	h.broadcast(ch, c, models.Frame{Type: models.EventUserJoined, Data: models.UserEvent{Username: req.Username}})

	h.publishPresence(PresenceJoin, req.RoomID, req.Username)
}

func (h *Hub) LeaveRoom(c *Client, req models.LeaveRoomRequest) {
	c.left(req.RoomID)
	members := h.presence.Leave(req.RoomID, req.Username)

	if ch, ok := h.channel(req.RoomID); ok {
		ch.Leave(c)
		h.broadcastAll(ch, models.Frame{Type: models.EventActiveUsers, Data: members})
		h.broadcast(ch, c, models.Frame{Type: models.EventUserLeft, Data: models.UserEvent{Username: req.Username}})
	}

	h.publishPresence(PresenceLeave, req.RoomID, req.Username)
}

// CreateNote appends a note to the room with the acting user as its sole
// collaborator, then broadcasts the persisted, resolved note to the channel.
func (h *Hub) CreateNote(ctx context.Context, c *Client, req models.CreateNoteRequest) {
	if err := h.createNote(ctx, req); err != nil {
		h.reportError(c, "createNote", req.RoomID, err)
	}
}

func (h *Hub) createNote(ctx context.Context, req models.CreateNoteRequest) error {
	if _, err := h.rooms.FindByID(ctx, req.RoomID); err != nil {
		return err
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Content:       req.Content,
		Collaborators: []string{req.UserID},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.rooms.AppendNote(ctx, req.RoomID, note); err != nil {
		return err
	}

	// Re-read so the emitted note reflects its persisted state.
	room, err := h.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return err
	}
	persisted := room.Note(note.ID)
	if persisted == nil {
		return repositories.ErrNoteNotFound
	}
	resolved, err := repositories.ResolveNote(ctx, h.users, *persisted)
	if err != nil {
		return err
	}

	if ch, ok := h.channel(req.RoomID); ok {
		h.broadcastAll(ch, models.Frame{Type: models.EventNoteCreated, Data: resolved})
	}
	return nil
}

// UpdateNote merges non-empty fields into the note, applies collaborator
// attribution, persists the one note via a targeted update, and broadcasts
// the result followed by a fresh presence snapshot.
func (h *Hub) UpdateNote(ctx context.Context, c *Client, req models.UpdateNoteRequest) {
	if err := h.updateNote(ctx, req); err != nil {
		h.reportError(c, "updateNote", req.RoomID, err)
	}
}

func (h *Hub) updateNote(ctx context.Context, req models.UpdateNoteRequest) error {
	room, err := h.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return err
	}
	note := room.Note(req.NoteID)
	if note == nil {
		return repositories.ErrNoteNotFound
	}

	patch := repositories.NotePatch{
		Title:     req.Title,
		Content:   req.Content,
		UpdatedAt: time.Now().UTC(),
	}
	if room.ShouldCredit(note, req.UserID) {
		patch.AddCollaborator = req.UserID
	}

	updated, err := h.rooms.UpdateNote(ctx, req.RoomID, req.NoteID, patch)
	if err != nil {
		return err
	}
	resolved, err := repositories.ResolveNote(ctx, h.users, *updated)
	if err != nil {
		return err
	}

	if ch, ok := h.channel(req.RoomID); ok {
		h.broadcastAll(ch, models.Frame{Type: models.EventNoteUpdated, Data: resolved})
		// Presence rides along with every note update so member lists and
		// note state converge from the same code path.
		h.broadcastAll(ch, models.Frame{Type: models.EventActiveUsers, Data: h.presence.Snapshot(req.RoomID)})
	}
	return nil
}

// Disconnect sweeps every room the connection joined, removing it from
// presence and notifying the remaining members. It runs synchronously before
// the connection is torn down.
func (h *Hub) Disconnect(c *Client) {
	for roomID, username := range c.memberships() {
		c.left(roomID)
		members := h.presence.Leave(roomID, username)

		if ch, ok := h.channel(roomID); ok {
			ch.Leave(c)
			h.broadcastAll(ch, models.Frame{Type: models.EventActiveUsers, Data: members})
			h.broadcast(ch, c, models.Frame{Type: models.EventUserLeft, Data: models.UserEvent{Username: username}})
		}

		h.publishPresence(PresenceLeave, roomID, username)
	}
}

func (h *Hub) broadcastAll(ch *Channel, frame models.Frame) {
	metrics.EventBroadcast(frame.Type)
	ch.BroadcastAll(frame)
}

func (h *Hub) broadcast(ch *Channel, except *Client, frame models.Frame) {
	metrics.EventBroadcast(frame.Type)
	ch.Broadcast(except, frame)
}

func (h *Hub) reportError(c *Client, op, roomID string, err error) {
	h.log.Warn("room operation failed",
		zap.String("op", op),
		zap.String("room", roomID),
		zap.Error(err),
	)
	c.Send(models.Frame{Type: models.EventError, Data: err.Error()})
}

func (h *Hub) publishPresence(typ, roomID, username string) {
	if h.relay == nil {
		return
	}
	if err := h.relay.Publish(context.Background(), typ, roomID, username); err != nil {
		h.log.Warn("presence relay publish failed", zap.String("room", roomID), zap.Error(err))
	}
}

// applyRemotePresence folds a presence event from another service instance
// into the local tracker and re-broadcasts the member list to local
// subscribers of that room.
func (h *Hub) applyRemotePresence(evt PresenceEvent) {
	var members []string
	switch evt.Type {
	case PresenceJoin:
		members = h.presence.Join(evt.RoomID, evt.Username)
	case PresenceLeave:
		members = h.presence.Leave(evt.RoomID, evt.Username)
	default:
		h.log.Warn("unknown presence event type", zap.String("type", evt.Type))
		return
	}

	if ch, ok := h.channel(evt.RoomID); ok {
		h.broadcastAll(ch, models.Frame{Type: models.EventActiveUsers, Data: members})
	}
}
