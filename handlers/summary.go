package handlers

import (
	"net/http"

	"clementus360/simpliday/analytics"
	"clementus360/simpliday/config"
	"clementus360/simpliday/store"
	"clementus360/simpliday/types"
)

type TodaySummaryResponse struct {
	Success       bool                              `json:"success"`
	Date          string                            `json:"date"`
	Summary       analytics.Summary                 `json:"summary"`
	MoodDisplay   string                            `json:"mood_display"`
	EnergyDisplay string                            `json:"energy_display"`
	Balance       *analytics.CalorieBalance         `json:"balance"`
	EntriesByType map[types.EntryType][]types.Entry `json:"entries_by_type"`
	ErrorMessage  string                            `json:"error,omitempty"`
}

type RangeSummaryResponse struct {
	Success       bool                   `json:"success"`
	Range         analytics.Range        `json:"range"`
	Summary       analytics.Summary      `json:"summary"`
	MoodDisplay   string                 `json:"mood_display"`
	EnergyDisplay string                 `json:"energy_display"`
	Days          []analytics.DaySummary `json:"days"`
	ErrorMessage  string                 `json:"error,omitempty"`
}

// TodaySummaryHandler aggregates the current local day with the calorie
// balance against the profile's TDEE.
func (h *Handler) TodaySummaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	loc, err := h.location(r.URL.Query().Get("tz"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := h.now().In(loc)
	entries, err := h.store.ListEntries(r.Context(), userID, store.ListQuery{
		Limit: maxEntryLimit,
		From:  analytics.StartOfDay(now, loc),
	})
	if err != nil {
		config.Logger.WithError(err).Error("Failed to load today's entries")
		writeError(w, "Could not load entries", statusFor(err))
		return
	}
	entries = analytics.OnDay(entries, now, loc)

	profile, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		// The summary is still useful without a balance
		config.Logger.WithError(err).Warn("Failed to load profile for balance")
	}

	summary := analytics.Summarize(entries)
	resp := TodaySummaryResponse{
		Success:       true,
		Date:          analytics.DayKey(now, loc),
		Summary:       summary,
		MoodDisplay:   summary.Mood.Display(0),
		EnergyDisplay: summary.Energy.Display(0),
		EntriesByType: analytics.GroupByType(entries, todayPerType),
	}
	if balance, ok := analytics.Balance(summary, profile); ok {
		resp.Balance = &balance
	}
	writeJSON(w, http.StatusOK, resp)
}

// SummaryHandler aggregates a week, month or all-time range.
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
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
	rng, err := analytics.ParseRange(q.Get("range"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := store.ListQuery{Limit: maxEntryLimit}
	if from, bounded := analytics.RangeStart(rng, h.now(), loc); bounded {
		query.From = from
	}
	entries, err := h.store.ListEntries(r.Context(), userID, query)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to load entries for summary")
		writeError(w, "Could not load entries", statusFor(err))
		return
	}

	summary := analytics.Summarize(entries)
	writeJSON(w, http.StatusOK, RangeSummaryResponse{
		Success:       true,
		Range:         rng,
		Summary:       summary,
		MoodDisplay:   summary.Mood.Display(1),
		EnergyDisplay: summary.Energy.Display(1),
		Days:          analytics.ByDay(entries, loc),
	})
}

// InsightsHandler feeds the type distribution and last-7-days charts.
func (h *Handler) InsightsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	loc, err := h.location(r.URL.Query().Get("tz"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.store.ListEntries(r.Context(), userID, store.ListQuery{Limit: insightsLimit})
	if err != nil {
		config.Logger.WithError(err).Error("Failed to load entries for insights")
		writeError(w, "Could not load entries", statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, types.InsightsResponse{
		Success:      true,
		Distribution: analytics.Distribution(entries),
		Last7Days:    analytics.DailyCounts(entries, h.now(), 7, loc),
		Total:        len(entries),
	})
}

// SuggestionsHandler asks the model for next week's fitness and diet advice.
func (h *Handler) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromRequest(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	loc, err := h.location(r.URL.Query().Get("tz"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.store.ListEntries(r.Context(), userID, store.ListQuery{
		Limit: config.ContextConfig.MaxSuggestionEntries,
	})
	if err != nil {
		config.Logger.WithError(err).Error("Failed to load entries for suggestions")
		writeError(w, "Could not load entries", statusFor(err))
		return
	}

	suggestions, err := h.advisor.Suggest(r.Context(), entries, h.profileLanguage(r, userID), loc)
	if err != nil {
		writeJSON(w, statusFor(err), types.SuggestionsResponse{
			Success:      false,
			ErrorMessage: messageFor(err, "Suggestions are temporarily unavailable"),
		})
		return
	}

	writeJSON(w, http.StatusOK, types.SuggestionsResponse{
		Success:     true,
		Suggestions: &suggestions,
	})
}
