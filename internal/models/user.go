package models

import "time"

// User is a minimal identity record; usernames are stored lowercased.
type User struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Name     string `bson:"name" json:"name"`
}

// UserRef is the display projection of a collaborator reference.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name}
}

// ResolvedNote is a Note with collaborator references expanded to display
// attributes. Stored references are never mutated by resolution.
type ResolvedNote struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Collaborators []UserRef `json:"collaborators"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ResolvedRoom mirrors Room with resolved notes, for read endpoints.
type ResolvedRoom struct {
	ID      string         `json:"roomId"`
	AdminID string         `json:"adminId"`
	Notes   []ResolvedNote `json:"notes"`
}
