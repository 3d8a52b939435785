package handlers

import (
	"net/http"
	"time"

	"clementus360/simpliday/llm"
	"clementus360/simpliday/session"
	"clementus360/simpliday/store"
)

const (
	defaultEntryLimit = 50
	maxEntryLimit     = 200
	insightsLimit     = 100
	todayPerType      = 3
)

// Handler serves the JSON API. Every dependency is injected by the caller.
type Handler struct {
	store     store.RecordStore
	sessions  *session.Manager
	extractor *llm.Extractor
	advisor   *llm.Advisor
	loc       *time.Location
	now       func() time.Time
}

func New(st store.RecordStore, sessions *session.Manager, extractor *llm.Extractor, advisor *llm.Advisor, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		store:     st,
		sessions:  sessions,
		extractor: extractor,
		advisor:   advisor,
		loc:       loc,
		now:       time.Now,
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
