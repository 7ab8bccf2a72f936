package models

import "errors"

// Frame is the websocket envelope for every inbound and outbound event.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Inbound event types.
const (
	EventJoinRoom   = "joinRoom"
	EventLeaveRoom  = "leaveRoom"
	EventCreateNote = "createNote"
	EventUpdateNote = "updateNote"
)

// Outbound event types.
const (
	EventActiveUsers = "activeUsers"
	EventUserJoined  = "userJoined"
	EventUserLeft    = "userLeft"
	EventNoteCreated = "noteCreated"
	EventNoteUpdated = "noteUpdated"
	EventError       = "error"
)

// Validator is implemented by inbound request payloads; frames are validated
// at the channel boundary before they reach the hub.
type Validator interface {
	Validate() error
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (r *JoinRoomRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomId required")
	}
	if r.Username == "" {
		return errors.New("username required")
	}
	return nil
}

type LeaveRoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (r *LeaveRoomRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomId required")
	}
	if r.Username == "" {
		return errors.New("username required")
	}
	return nil
}

type CreateNoteRequest struct {
	RoomID  string `json:"roomId"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

func (r *CreateNoteRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomId required")
	}
	if r.Title == "" {
		return errors.New("title required")
	}
	if r.UserID == "" {
		return errors.New("userId required")
	}
	return nil
}

// UpdateNoteRequest carries a non-destructive merge: an empty Title or
// Content leaves the stored value unchanged.
type UpdateNoteRequest struct {
	RoomID  string `json:"roomId"`
	NoteID  string `json:"noteId"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

func (r *UpdateNoteRequest) Validate() error {
	if r.RoomID == "" {
		return errors.New("roomId required")
	}
	if r.NoteID == "" {
		return errors.New("noteId required")
	}
	if r.UserID == "" {
		return errors.New("userId required")
	}
	return nil
}

// UserEvent is the payload of userJoined and userLeft broadcasts.
type UserEvent struct {
	Username string `json:"username"`
}
