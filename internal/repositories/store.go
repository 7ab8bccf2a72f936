package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrNoteNotFound = errors.New("note not found")
	ErrUserNotFound = errors.New("user not found")
)

// NotePatch is a targeted update for a single embedded note. Empty Title or
// Content keeps the stored value; AddCollaborator, when non-empty, is appended
// to the collaborator set (idempotent).
type NotePatch struct {
	Title           string
	Content         string
	AddCollaborator string
	UpdatedAt       time.Time
}

// RoomStore is the durable Room document store. UpdateNote must be scoped to
// the one note it targets so concurrent updates to sibling notes in the same
// room cannot overwrite each other.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	AppendNote(ctx context.Context, roomID string, note models.Note) error
	UpdateNote(ctx context.Context, roomID, noteID string, patch NotePatch) (*models.Note, error)
	RemoveCollaborator(ctx context.Context, roomID, noteID, userID string) (*models.Note, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByIDs returns users in the order the ids were requested; unknown
	// ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}
