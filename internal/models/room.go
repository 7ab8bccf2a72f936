package models

import "time"

// Room is a named collaborative workspace. Its ID is chosen by the caller at
// creation time and doubles as the Mongo document key, so duplicate creation
// fails on the unique _id.
type Room struct {
	ID      string `bson:"_id" json:"roomId"`
	AdminID string `bson:"adminId" json:"adminId"`
	Notes   []Note `bson:"notes" json:"notes"`
}

// Note belongs to exactly one Room. Collaborators holds user IDs in insertion
// order; membership is unique.
type Note struct {
	ID            string    `bson:"id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Content       string    `bson:"content" json:"content"`
	Collaborators []string  `bson:"collaborators" json:"collaborators"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Note returns the embedded note with the given id, or nil.
func (r *Room) Note(id string) *Note {
	for i := range r.Notes {
		if r.Notes[i].ID == id {
			return &r.Notes[i]
		}
	}
	return nil
}

func (n *Note) HasCollaborator(userID string) bool {
	for _, id := range n.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

// ShouldCredit reports whether a mutation by userID must add them to the
// note's collaborator list: the room admin is never auto-added, and existing
// collaborators are not duplicated.
func (r *Room) ShouldCredit(n *Note, userID string) bool {
	return userID != r.AdminID && !n.HasCollaborator(userID)
}

func (n Note) Clone() Note {
	out := n
	out.Collaborators = append([]string(nil), n.Collaborators...)
	return out
}

func (r *Room) Clone() *Room {
	out := &Room{ID: r.ID, AdminID: r.AdminID, Notes: make([]Note, 0, len(r.Notes))}
	for _, n := range r.Notes {
		out.Notes = append(out.Notes, n.Clone())
	}
	return out
}
