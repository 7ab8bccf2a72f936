package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

func seedRoomWithNote(t *testing.T, s *MemoryRoomStore) (string, string) {
	t.Helper()
	ctx := context.Background()
	if err := s.Create(ctx, &models.Room{ID: "R1", AdminID: "u-a"}); err != nil {
		t.Fatalf("create room: %v", err)
	}
	note := models.Note{ID: "n1", Title: "T", Content: "C", Collaborators: []string{"u-b"}}
	if err := s.AppendNote(ctx, "R1", note); err != nil {
		t.Fatalf("append note: %v", err)
	}
	return "R1", "n1"
}

func TestRoomStoreDuplicateCreateFails(t *testing.T) {
	s := NewMemoryRoomStore()
	ctx := context.Background()
	if err := s.Create(ctx, &models.Room{ID: "R1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Create(ctx, &models.Room{ID: "R1"}); err != ErrRoomExists {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}
}

func TestRoomStoreFindMissing(t *testing.T) {
	s := NewMemoryRoomStore()
	if _, err := s.FindByID(context.Background(), "ghost"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomStoreFindReturnsCopy(t *testing.T) {
	s := NewMemoryRoomStore()
	roomID, _ := seedRoomWithNote(t, s)
	ctx := context.Background()

	room, _ := s.FindByID(ctx, roomID)
	room.Notes[0].Title = "mutated"
	room.Notes[0].Collaborators[0] = "mutated"

	fresh, _ := s.FindByID(ctx, roomID)
	if fresh.Notes[0].Title != "T" || fresh.Notes[0].Collaborators[0] != "u-b" {
		t.Fatalf("store state aliased by caller mutation: %#v", fresh.Notes[0])
	}
}

func TestUpdateNotePatchSemantics(t *testing.T) {
	s := NewMemoryRoomStore()
	roomID, noteID := seedRoomWithNote(t, s)
	ctx := context.Background()
	now := time.Now().UTC()

	// Empty fields keep stored values; collaborator append is idempotent.
	updated, err := s.UpdateNote(ctx, roomID, noteID, NotePatch{Content: "C2", AddCollaborator: "u-c", UpdatedAt: now})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "T" || updated.Content != "C2" {
		t.Fatalf("unexpected merge result: %#v", updated)
	}
	if len(updated.Collaborators) != 2 || updated.Collaborators[1] != "u-c" {
		t.Fatalf("unexpected collaborators: %v", updated.Collaborators)
	}
	if !updated.UpdatedAt.Equal(now) {
		t.Fatalf("updatedAt not applied: %v", updated.UpdatedAt)
	}

	updated, err = s.UpdateNote(ctx, roomID, noteID, NotePatch{AddCollaborator: "u-c", UpdatedAt: now})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Collaborators) != 2 {
		t.Fatalf("collaborator duplicated: %v", updated.Collaborators)
	}
}

func TestUpdateNoteScopedToTargetNote(t *testing.T) {
	s := NewMemoryRoomStore()
	roomID, noteID := seedRoomWithNote(t, s)
	ctx := context.Background()
	if err := s.AppendNote(ctx, roomID, models.Note{ID: "n2", Title: "Other", Content: "X"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := s.UpdateNote(ctx, roomID, noteID, NotePatch{Title: "T2", UpdatedAt: time.Now()}); err != nil {
		t.Fatalf("update: %v", err)
	}

	room, _ := s.FindByID(ctx, roomID)
	if room.Note("n2").Title != "Other" || room.Note("n2").Content != "X" {
		t.Fatalf("sibling note clobbered: %#v", room.Note("n2"))
	}
}

func TestUpdateNoteMissing(t *testing.T) {
	s := NewMemoryRoomStore()
	roomID, _ := seedRoomWithNote(t, s)
	ctx := context.Background()

	if _, err := s.UpdateNote(ctx, "ghost", "n1", NotePatch{}); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := s.UpdateNote(ctx, roomID, "ghost", NotePatch{}); err != ErrNoteNotFound {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestRemoveCollaborator(t *testing.T) {
	s := NewMemoryRoomStore()
	roomID, noteID := seedRoomWithNote(t, s)
	ctx := context.Background()

	updated, err := s.RemoveCollaborator(ctx, roomID, noteID, "u-b")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(updated.Collaborators) != 0 {
		t.Fatalf("collaborator not removed: %v", updated.Collaborators)
	}

	// Removing an absent collaborator is a no-op.
	if _, err := s.RemoveCollaborator(ctx, roomID, noteID, "ghost"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestUserStoreFindByIDsPreservesOrder(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "u-a", Username: "a"},
		{ID: "u-b", Username: "b"},
		{ID: "u-c", Username: "c"},
	} {
		user := u
		if err := s.Create(ctx, &user); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	found, err := s.FindByIDs(ctx, []string{"u-c", "ghost", "u-a"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 2 || found[0].ID != "u-c" || found[1].ID != "u-a" {
		t.Fatalf("order not preserved: %#v", found)
	}
}

func TestUserStoreAssignsID(t *testing.T) {
	s := NewMemoryUserStore()
	user := &models.User{Username: "b"}
	if err := s.Create(context.Background(), user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
}
