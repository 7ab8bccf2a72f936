package repositories

import (
	"context"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
)

// ResolveNote expands a note's collaborator references to display attributes.
// References without a matching user are carried through with the bare id so
// an out-of-band user deletion never hides an attribution.
func ResolveNote(ctx context.Context, users UserStore, note models.Note) (models.ResolvedNote, error) {
	found, err := users.FindByIDs(ctx, note.Collaborators)
	if err != nil {
		return models.ResolvedNote{}, err
	}
	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	refs := make([]models.UserRef, 0, len(note.Collaborators))
	for _, id := range note.Collaborators {
		if u, ok := byID[id]; ok {
			refs = append(refs, u.Ref())
		} else {
			refs = append(refs, models.UserRef{ID: id})
		}
	}
	return models.ResolvedNote{
		ID:            note.ID,
		Title:         note.Title,
		Content:       note.Content,
		Collaborators: refs,
		CreatedAt:     note.CreatedAt,
		UpdatedAt:     note.UpdatedAt,
	}, nil
}

func ResolveRoom(ctx context.Context, users UserStore, room *models.Room) (models.ResolvedRoom, error) {
	out := models.ResolvedRoom{ID: room.ID, AdminID: room.AdminID, Notes: make([]models.ResolvedNote, 0, len(room.Notes))}
	for _, n := range room.Notes {
		resolved, err := ResolveNote(ctx, users, n)
		if err != nil {
			return models.ResolvedRoom{}, err
		}
		out.Notes = append(out.Notes, resolved)
	}
	return out, nil
}
