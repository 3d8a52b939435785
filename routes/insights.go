package routes

import (
	"clementus360/simpliday/handlers"

	"github.com/go-chi/chi/v5"
)

// RegisterInsightRoutes registers profile, summary and insight routes
func RegisterInsightRoutes(r chi.Router, h *handlers.Handler) {
	r.Get("/profile", h.GetProfileHandler)
	r.Put("/profile", h.UpdateProfileHandler)

	r.Get("/summary/today", h.TodaySummaryHandler)
	r.Get("/summary", h.SummaryHandler)

	r.Get("/insights", h.InsightsHandler)
	r.Post("/insights/suggestions", h.SuggestionsHandler)
}
