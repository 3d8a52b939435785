package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clementus360/simpliday/config"
	"clementus360/simpliday/session"
	"clementus360/simpliday/types"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ChatHandler runs one conversation turn, opening a session when needed.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, "Missing message", http.StatusBadRequest)
		return
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	loc, err := h.location(req.Timezone)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var lang types.Language
	if req.Language != "" {
		lang = types.ParseLanguage(req.Language)
	}

	sess, err := h.sessions.GetOrCreate(r.Context(), req.SessionID, userID, lang, loc)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to open chat session")
		writeError(w, messageFor(err, "Could not manage session"), statusFor(err))
		return
	}

	res, err := sess.Send(r.Context(), req.Message)
	if err != nil {
		h.writeTurnError(w, sess, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{
		Success:   true,
		SessionID: sess.ID,
		Reply:     res.Reply,
		State:     string(res.State),
		Drafts:    res.Drafts,
		Committed: res.Committed,
	})
}

// ConfirmHandler commits the staged drafts of a session.
func (h *Handler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromBody(w, r)
	if !ok {
		return
	}

	committed, err := sess.Confirm(r.Context())
	if err != nil {
		h.writeTurnError(w, sess, err)
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{
		Success:   true,
		SessionID: sess.ID,
		State:     string(sess.State()),
		Drafts:    []types.EntryDraft{},
		Committed: committed,
	})
}

// CancelHandler discards the staged drafts of a session.
func (h *Handler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessionFromBody(w, r)
	if !ok {
		return
	}

	if err := sess.Cancel(); err != nil {
		writeError(w, messageFor(err, "Could not cancel"), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, types.ChatResponse{
		Success:   true,
		SessionID: sess.ID,
		State:     string(sess.State()),
	})
}

// GetSessionHandler returns the history and staged drafts of a session.
func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sess, err := h.sessions.Get(chi.URLParam(r, "sessionID"), userID)
	if err != nil {
		writeError(w, messageFor(err, "Could not load session"), statusFor(err))
		return
	}

	snap := sess.Snapshot()
	writeJSON(w, http.StatusOK, types.ChatStateResponse{
		Success:   true,
		SessionID: snap.ID,
		State:     string(snap.State),
		History:   snap.History,
		Drafts:    snap.Drafts,
	})
}

// DeleteSessionHandler closes a session. Staged drafts are dropped.
func (h *Handler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.Close(chi.URLParam(r, "sessionID"), userID); err != nil {
		writeError(w, messageFor(err, "Could not close session"), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) sessionFromBody(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	var req types.SessionRequest
	if err := decodeJSON(r, &req); err != nil || req.SessionID == "" {
		writeError(w, "Missing session_id", http.StatusBadRequest)
		return nil, false
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	sess, err := h.sessions.Get(req.SessionID, userID)
	if err != nil {
		writeError(w, messageFor(err, "Could not load session"), statusFor(err))
		return nil, false
	}
	return sess, true
}

// writeTurnError reports a failed turn. A failed commit still lists what was
// written so the client can reconcile.
func (h *Handler) writeTurnError(w http.ResponseWriter, sess *session.Session, err error) {
	var ce *session.CommitError
	if errors.As(err, &ce) {
		snap := sess.Snapshot()
		writeJSON(w, http.StatusInternalServerError, types.ChatResponse{
			Success:      false,
			SessionID:    sess.ID,
			State:        string(snap.State),
			Drafts:       snap.Drafts,
			Committed:    ce.Committed,
			ErrorMessage: "Could not save all entries, please confirm again",
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		config.Logger.WithFields(logrus.Fields{
			"session": sess.ID,
		}).WithError(err).Error("Chat turn failed")
	}
	writeJSON(w, status, types.ChatResponse{
		Success:      false,
		SessionID:    sess.ID,
		ErrorMessage: messageFor(err, "Could not process message"),
	})
}
