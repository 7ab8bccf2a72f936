package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories"
)

// RoomRepo wraps the rooms collection. The room identifier is the document
// _id, so duplicate creation fails on the primary index.
type RoomRepo struct{ col *mongo.Collection }

func NewRoomRepo(c *Client, dbName, colName string) (*RoomRepo, error) {
	db, err := c.DB(dbName)
	if err != nil {
		return nil, err
	}
	if colName == "" {
		colName = "rooms"
	}
	return &RoomRepo{col: db.Collection(colName)}, nil
}

func (r *RoomRepo) Create(ctx context.Context, room *models.Room) error {
	if room.Notes == nil {
		room.Notes = []models.Note{}
	}
	_, err := r.col.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrRoomExists
	}
	return err
}

func (r *RoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context) ([]models.Room, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Room
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RoomRepo) AppendNote(ctx context.Context, roomID string, note models.Note) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": roomID}, bson.M{"$push": bson.M{"notes": note}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrRoomNotFound
	}
	return nil
}

// UpdateNote writes only the targeted note's fields via the positional
// operator, so a concurrent update to a sibling note in the same room can
// never be clobbered by a whole-document save.
func (r *RoomRepo) UpdateNote(ctx context.Context, roomID, noteID string, patch repositories.NotePatch) (*models.Note, error) {
	set := bson.M{"notes.$.updatedAt": patch.UpdatedAt}
	if patch.Title != "" {
		set["notes.$.title"] = patch.Title
	}
	if patch.Content != "" {
		set["notes.$.content"] = patch.Content
	}
	update := bson.M{"$set": set}
	if patch.AddCollaborator != "" {
		update["$addToSet"] = bson.M{"notes.$.collaborators": patch.AddCollaborator}
	}

	return r.findAndPatchNote(ctx, roomID, noteID, update)
}

func (r *RoomRepo) RemoveCollaborator(ctx context.Context, roomID, noteID, userID string) (*models.Note, error) {
	update := bson.M{"$pull": bson.M{"notes.$.collaborators": userID}}
	return r.findAndPatchNote(ctx, roomID, noteID, update)
}

func (r *RoomRepo) findAndPatchNote(ctx context.Context, roomID, noteID string, update bson.M) (*models.Note, error) {
	filter := bson.M{"_id": roomID, "notes.id": noteID}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var room models.Room
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	note := room.Note(noteID)
	if note == nil {
		return nil, repositories.ErrNoteNotFound
	}
	return note, nil
}
