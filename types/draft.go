package types

// EntryDraft is an extracted record that has not been persisted yet.
type EntryDraft struct {
	Type    EntryType `json:"type"`
	Content string    `json:"content"`
	Fields  Fields    `json:"parsed_data"`
}

// ExtractionResult is what one model turn yields: zero or more drafts plus the
// conversational reply shown to the user.
type ExtractionResult struct {
	Entries []EntryDraft `json:"entries"`
	Reply   string       `json:"reply"`
}

type Suggestions struct {
	Summary            string   `json:"summary"`
	FitnessSuggestions []string `json:"fitness_suggestions"`
	DietSuggestions    []string `json:"diet_suggestions"`
	Encouragement      string   `json:"encouragement"`
}

type SuggestionsResponse struct {
	Success      bool         `json:"success"`
	Suggestions  *Suggestions `json:"suggestions,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
}
