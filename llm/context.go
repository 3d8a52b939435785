package llm

import (
	"clementus360/simpliday/types"
)

// Token estimation and context trimming
func EstimateTokens(text string) int {
	// Rough estimation: ~4 characters per token
	return len(text) / 4
}

// CapHistory keeps the most recent limit messages. The window always opens
// on a user turn.
func CapHistory(history []types.Message, limit int) []types.Message {
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	for len(history) > 0 && history[0].Role != types.RoleUser {
		history = history[1:]
	}
	return history
}
