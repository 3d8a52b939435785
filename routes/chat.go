package routes

import (
	"clementus360/simpliday/handlers"

	"github.com/go-chi/chi/v5"
)

// RegisterChatRoutes registers the conversational capture routes
func RegisterChatRoutes(r chi.Router, h *handlers.Handler) {
	r.Post("/chat", h.ChatHandler)
	r.Post("/chat/confirm", h.ConfirmHandler)
	r.Post("/chat/cancel", h.CancelHandler)
	r.Get("/chat/{sessionID}", h.GetSessionHandler)
	r.Delete("/chat/{sessionID}", h.DeleteSessionHandler)
}
