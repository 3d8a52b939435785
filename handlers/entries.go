package handlers

import (
	"net/http"
	"strings"

	"clementus360/simpliday/analytics"
	"clementus360/simpliday/config"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GetEntriesHandler lists entries newest first. Filters: limit, from, to
// (RFC 3339 or YYYY-MM-DD in tz) and range (today|week|month|all).
func (h *Handler) GetEntriesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	loc, err := h.location(q.Get("tz"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := parseLimit(q.Get("limit"), defaultEntryLimit, maxEntryLimit)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	from, err := parseTime("from", q.Get("from"), loc)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseTime("to", q.Get("to"), loc)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rng := q.Get("range"); rng != "" {
		parsed, err := analytics.ParseRange(rng)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if start, bounded := analytics.RangeStart(parsed, h.now(), loc); bounded {
			from = start
		}
	}

	entries, err := h.store.ListEntries(r.Context(), userID, store.ListQuery{Limit: limit, From: from, To: to})
	if err != nil {
		config.Logger.WithError(err).Error("Failed to list entries")
		writeError(w, "Could not load entries", statusFor(err))
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}

	writeJSON(w, http.StatusOK, types.GetEntriesResponse{
		Success: true,
		Entries: entries,
		Limit:   limit,
	})
}

// CreateEntryHandler adds an entry by hand, without the model.
func (h *Handler) CreateEntryHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CreateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	content := strings.TrimSpace(req.Content)
	if err := store.ValidateEntry(userID, req.Type, content); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.store.CreateEntry(r.Context(), userID, req.Type, content, req.ParsedData)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to create entry")
		writeError(w, messageFor(err, "Failed to create entry"), statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, types.EntryResponse{
		Success: true,
		Entry:   &entry,
	})
}

// UpdateEntryHandler rewrites content and fields together. With reextract
// the fields come from the model; an empty or failed extraction keeps the
// old fields and still saves the new text.
func (h *Handler) UpdateEntryHandler(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(entryID); err != nil {
		writeError(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	var req types.UpdateEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, "Missing content", http.StatusBadRequest)
		return
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	current, err := h.store.GetEntry(r.Context(), userID, entryID)
	if err != nil {
		writeError(w, messageFor(err, "Could not load entry"), statusFor(err))
		return
	}

	fields := current.ParsedData
	if req.ParsedData != nil {
		fields = req.ParsedData
	}
	if req.Reextract && h.extractor != nil {
		lang := h.profileLanguage(r, userID)
		extracted, err := h.extractor.Reparse(r.Context(), current.Type, content, lang)
		switch {
		case err != nil:
			config.Logger.WithFields(logrus.Fields{
				"entry_id": entryID,
			}).WithError(err).Warn("Re-extraction failed, keeping previous fields")
		case len(extracted) > 0:
			fields = extracted
		}
	}

	updated, err := h.store.UpdateEntry(r.Context(), userID, entryID, content, fields)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to update entry")
		writeError(w, messageFor(err, "Failed to update entry"), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, types.EntryResponse{
		Success: true,
		Entry:   &updated,
	})
}

func (h *Handler) DeleteEntryHandler(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(entryID); err != nil {
		writeError(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.DeleteEntry(r.Context(), userID, entryID); err != nil {
		config.Logger.WithError(err).Error("Failed to delete entry")
		writeError(w, messageFor(err, "Could not delete entry"), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, types.DeleteEntryResponse{
		Success: true,
		Message: "Entry deleted successfully",
	})
}
