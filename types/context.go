package types

type ContextConfig struct {
	MaxHistoryMessages   int `json:"max_history_messages"`
	MaxRecentEntries     int `json:"max_recent_entries"`
	LateNightEndHour     int `json:"late_night_end_hour"`
	BalanceThreshold     int `json:"balance_threshold"`
	MinSuggestionEntries int `json:"min_suggestion_entries"`
	MaxSuggestionEntries int `json:"max_suggestion_entries"`
}
