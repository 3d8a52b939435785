package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clementus360/simpliday/llm"
	"clementus360/simpliday/middleware"
	"clementus360/simpliday/session"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	resp := types.ChatResponse{
		Success:      false,
		ErrorMessage: message,
	}
	writeJSON(w, status, resp)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrNothingToConfirm):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llm.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// messageFor hides internal error details from clients.
func messageFor(err error, fallback string) string {
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrNothingToConfirm),
		errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return err.Error()
	}
	return fallback
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &types.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}

func userFromRequest(r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	return userID, userID != ""
}

// location resolves a tz query or body value, falling back to the server zone.
func (h *Handler) location(tz string) (*time.Location, error) {
	if tz == "" {
		return h.loc, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &types.ValidationError{Field: "tz", Message: "unknown time zone " + strconv.Quote(tz)}
	}
	return loc, nil
}

func parseLimit(s string, def, ceiling int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, &types.ValidationError{Field: "limit", Message: "must be a positive integer"}
	}
	if n > ceiling {
		n = ceiling
	}
	return n, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates in loc.
func parseTime(field, s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, &types.ValidationError{Field: field, Message: "expected RFC 3339 time or YYYY-MM-DD"}
}
