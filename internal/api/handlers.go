package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/metrics"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/models"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/session"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/utils"
)

type Handlers struct {
	log   *zap.Logger
	hub   *session.Hub
	rooms repositories.RoomStore
	users repositories.UserStore
}

func NewHandlers(log *zap.Logger, hub *session.Hub, rooms repositories.RoomStore, users repositories.UserStore) *Handlers {
	return &Handlers{log: log, hub: hub, rooms: rooms, users: users}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (h *Handlers) Ready(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ready"))
}

/*** Room websocket: presence + note mutations ***/

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (h *Handlers) RoomWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	metrics.ConnOpened()
	defer metrics.ConnClosed()

	client := session.NewClient(conn)
	// Cleanup must run before the connection is fully torn down.
	defer h.hub.Disconnect(client)

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		h.dispatch(r, client, frame)
	}
}

func (h *Handlers) dispatch(r *http.Request, client *session.Client, frame models.Frame) {
	switch frame.Type {
	case models.EventJoinRoom:
		var req models.JoinRoomRequest
		if err := decode(frame.Data, &req); err != nil {
			client.Send(errFrame(err.Error()))
			return
		}
		h.hub.JoinRoom(client, req)

	case models.EventLeaveRoom:
		var req models.LeaveRoomRequest
		if err := decode(frame.Data, &req); err != nil {
			client.Send(errFrame(err.Error()))
			return
		}
		h.hub.LeaveRoom(client, req)

	case models.EventCreateNote:
		var req models.CreateNoteRequest
		if err := decode(frame.Data, &req); err != nil {
			client.Send(errFrame(err.Error()))
			return
		}
		h.hub.CreateNote(r.Context(), client, req)

	case models.EventUpdateNote:
		var req models.UpdateNoteRequest
		if err := decode(frame.Data, &req); err != nil {
			client.Send(errFrame(err.Error()))
			return
		}
		h.hub.UpdateNote(r.Context(), client, req)

	default:
		client.Send(errFrame("unknown_type"))
	}
}

// decode re-marshals an untyped frame body into its tagged request struct and
// validates it before it can reach the hub.
func decode(in any, out models.Validator) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return err
	}
	return out.Validate()
}

func errFrame(msg string) models.Frame { return models.Frame{Type: models.EventError, Data: msg} }

/*** Room + note CRUD ***/

func (h *Handlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RoomID  string `json:"roomId"`
		AdminID string `json:"adminId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "Invalid request payload"})
		return
	}
	if body.RoomID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "roomId required"})
		return
	}

	room := &models.Room{ID: body.RoomID, AdminID: body.AdminID, Notes: []models.Note{}}
	if err := h.rooms.Create(r.Context(), room); err != nil {
		if errors.Is(err, repositories.ErrRoomExists) {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{Code: "room_exists", Message: "Room already exists"})
			return
		}
		h.log.Error("create room failed", zap.String("room", body.RoomID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to create room"})
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]*models.Room{"room": room})
}

func (h *Handlers) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	room, err := h.rooms.FindByID(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "room_not_found", Message: "Room not found"})
			return
		}
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to fetch room"})
		return
	}
	resolved, err := repositories.ResolveRoom(r.Context(), h.users, room)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to resolve collaborators"})
		return
	}
	utils.JSON(w, http.StatusOK, models.RoomResponse{Room: resolved})
}

func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to fetch rooms"})
		return
	}
	out := make([]models.ResolvedRoom, 0, len(rooms))
	for i := range rooms {
		resolved, err := repositories.ResolveRoom(r.Context(), h.users, &rooms[i])
		if err != nil {
			utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to resolve collaborators"})
			return
		}
		out = append(out, resolved)
	}
	utils.JSON(w, http.StatusOK, models.RoomsResponse{Total: len(out), Rooms: out})
}

func (h *Handlers) AddNote(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "Invalid request payload"})
		return
	}
	if body.Title == "" || body.UserID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "title and userId required"})
		return
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:            uuid.NewString(),
		Title:         body.Title,
		Content:       body.Content,
		Collaborators: []string{body.UserID},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.rooms.AppendNote(r.Context(), roomID, note); err != nil {
		h.writeStoreError(w, err)
		return
	}
	resolved, err := repositories.ResolveNote(r.Context(), h.users, note)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to resolve collaborators"})
		return
	}
	utils.JSON(w, http.StatusCreated, models.NoteResponse{Note: resolved})
}

func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	noteID := chi.URLParam(r, "noteId")
	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		UserID  string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "Invalid request payload"})
		return
	}
	if body.UserID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "userId required"})
		return
	}

	room, err := h.rooms.FindByID(r.Context(), roomID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	note := room.Note(noteID)
	if note == nil {
		h.writeStoreError(w, repositories.ErrNoteNotFound)
		return
	}

	patch := repositories.NotePatch{Title: body.Title, Content: body.Content, UpdatedAt: time.Now().UTC()}
	if room.ShouldCredit(note, body.UserID) {
		patch.AddCollaborator = body.UserID
	}
	updated, err := h.rooms.UpdateNote(r.Context(), roomID, noteID, patch)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	resolved, err := repositories.ResolveNote(r.Context(), h.users, *updated)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to resolve collaborators"})
		return
	}
	utils.JSON(w, http.StatusOK, models.NoteResponse{Note: resolved})
}

func (h *Handlers) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	noteID := chi.URLParam(r, "noteId")
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "userId required"})
		return
	}

	updated, err := h.rooms.RemoveCollaborator(r.Context(), roomID, noteID, body.UserID)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	resolved, err := repositories.ResolveNote(r.Context(), h.users, *updated)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to resolve collaborators"})
		return
	}
	utils.JSON(w, http.StatusOK, models.NoteResponse{Note: resolved})
}

func (h *Handlers) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrRoomNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "room_not_found", Message: "Room not found"})
	case errors.Is(err, repositories.ErrNoteNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "note_not_found", Message: "Note not found"})
	default:
		h.log.Error("store operation failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Storage operation failed"})
	}
}

/*** Users ***/

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "Invalid request payload"})
		return
	}
	if body.Name == "" || body.Email == "" {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_request", Message: "name and email required"})
		return
	}

	user := &models.User{
		Username: strings.ToLower(body.Name),
		Email:    body.Email,
		Name:     body.Name,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.log.Error("create user failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to create user"})
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Failed to fetch users"})
		return
	}
	utils.JSON(w, http.StatusOK, users)
}
