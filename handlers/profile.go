package handlers

import (
	"net/http"

	"clementus360/simpliday/config"
	"clementus360/simpliday/types"
)

func (h *Handler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to load profile")
		writeError(w, "Could not load profile", statusFor(err))
		return
	}

	// A user without a saved profile gets null
	writeJSON(w, http.StatusOK, types.ProfileResponse{
		Success: true,
		Profile: profile,
	})
}

// UpdateProfileHandler merges a partial profile and recomputes the TDEE.
func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var patch types.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := h.store.UpsertProfile(r.Context(), userID, patch)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to save profile")
		writeError(w, messageFor(err, "Could not save profile"), statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, types.ProfileResponse{
		Success: true,
		Profile: &profile,
	})
}

// profileLanguage prefers a lang query, then the language saved on the profile.
func (h *Handler) profileLanguage(r *http.Request, userID string) types.Language {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return types.ParseLanguage(lang)
	}
	profile, err := h.store.GetProfile(r.Context(), userID)
	if err != nil || profile == nil || profile.Language == "" {
		return types.LanguageEN
	}
	return profile.Language
}
