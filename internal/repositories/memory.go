package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

// MemoryRoomStore is a mutex-guarded RoomStore used in tests and as the
// fallback when no Mongo URI is configured. It applies the same per-note
// update scoping as the Mongo implementation.
type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
	order []string
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[string]*models.Room)}
}

func (s *MemoryRoomStore) Create(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return ErrRoomExists
	}
	if room.Notes == nil {
		room.Notes = []models.Note{}
	}
	s.rooms[room.ID] = room.Clone()
	s.order = append(s.order, room.ID)
	return nil
}

func (s *MemoryRoomStore) FindByID(_ context.Context, id string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *MemoryRoomStore) List(_ context.Context) ([]models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.rooms[id].Clone())
	}
	return out, nil
}

func (s *MemoryRoomStore) AppendNote(_ context.Context, roomID string, note models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	room.Notes = append(room.Notes, note.Clone())
	return nil
}

func (s *MemoryRoomStore) UpdateNote(_ context.Context, roomID, noteID string, patch NotePatch) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	note := room.Note(noteID)
	if note == nil {
		return nil, ErrNoteNotFound
	}
	if patch.Title != "" {
		note.Title = patch.Title
	}
	if patch.Content != "" {
		note.Content = patch.Content
	}
	if patch.AddCollaborator != "" && !note.HasCollaborator(patch.AddCollaborator) {
		note.Collaborators = append(note.Collaborators, patch.AddCollaborator)
	}
	note.UpdatedAt = patch.UpdatedAt
	clone := note.Clone()
	return &clone, nil
}

func (s *MemoryRoomStore) RemoveCollaborator(_ context.Context, roomID, noteID, userID string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	note := room.Note(noteID)
	if note == nil {
		return nil, ErrNoteNotFound
	}
	kept := note.Collaborators[:0]
	for _, id := range note.Collaborators {
		if id != userID {
			kept = append(kept, id)
		}
	}
	note.Collaborators = kept
	clone := note.Clone()
	return &clone, nil
}

// MemoryUserStore mirrors the Mongo user collection for tests and the
// no-database fallback.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	order []string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = *user
	s.order = append(s.order, user.ID)
	return nil
}

func (s *MemoryUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryUserStore) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}
