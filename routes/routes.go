package routes

import (
	"net/http"

	"clementus360/simpliday/handlers"
	"clementus360/simpliday/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API under /api. Everything except the health check
// requires a Supabase access token.
func NewRouter(h *handlers.Handler, authSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(middleware.Chain(middleware.CORSMiddleware, middleware.LoggingMiddleware))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authSecret))

			RegisterChatRoutes(r, h)
			RegisterEntryRoutes(r, h)
			RegisterInsightRoutes(r, h)
		})
	})

	return r
}
