package routers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/api"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/metrics"
)

func New(h *api.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/notes", func(r chi.Router) {
		r.Post("/rooms", h.CreateRoom)
		r.Get("/rooms", h.ListRooms)
		r.Get("/rooms/{roomId}", h.GetRoom)
		r.Post("/rooms/{roomId}/notes", h.AddNote)
		r.Put("/rooms/{roomId}/notes/{noteId}", h.UpdateNote)
		r.Put("/rooms/{roomId}/notes/{noteId}/remove-collaborator", h.RemoveCollaborator)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
	})

	r.HandleFunc("/ws", h.RoomWS)

	return r
}
