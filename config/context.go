package config

import "clementus360/simpliday/types"

// Context configuration
var ContextConfig = types.ContextConfig{
	MaxHistoryMessages:   10,
	MaxRecentEntries:     10,
	LateNightEndHour:     3,
	BalanceThreshold:     200,
	MinSuggestionEntries: 3,
	MaxSuggestionEntries: 20,
}
