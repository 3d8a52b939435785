package routes

import (
	"clementus360/simpliday/handlers"

	"github.com/go-chi/chi/v5"
)

// RegisterEntryRoutes registers the record CRUD routes
func RegisterEntryRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/entries", h.GetEntriesHandler)
	r.Post("/entries", h.CreateEntryHandler)
	r.Patch("/entries/{id}", h.UpdateEntryHandler)
	r.Delete("/entries/{id}", h.DeleteEntryHandler)
}
