package llm

import (
	"context"
	"fmt"
	"time"

	"clementus360/simpliday/config"
	"clementus360/simpliday/types"
)

var fallbackSuggestions = map[types.Language]types.Suggestions{
	types.LanguageEN: {
		Summary:       "Keep up the tracking habit!",
		Encouragement: "You are doing great!",
	},
	types.LanguageZH: {
		Summary:       "继续保持记录习惯！",
		Encouragement: "你做得很好！",
	},
}

// Advisor turns recent entries into weekly fitness and diet advice.
type Advisor struct {
	extractor *Extractor
	minimum   int
	maximum   int
}

func NewAdvisor(extractor *Extractor) *Advisor {
	return &Advisor{
		extractor: extractor,
		minimum:   config.ContextConfig.MinSuggestionEntries,
		maximum:   config.ContextConfig.MaxSuggestionEntries,
	}
}

// Suggest uses the newest entries (already sorted newest first). Too few
// entries is a ValidationError; unparseable output yields canned advice.
func (a *Advisor) Suggest(ctx context.Context, entries []types.Entry, lang types.Language, loc *time.Location) (types.Suggestions, error) {
	if len(entries) < a.minimum {
		return types.Suggestions{}, &types.ValidationError{
			Field:   "entries",
			Message: fmt.Sprintf("need at least %d entries to generate suggestions", a.minimum),
		}
	}
	if len(entries) > a.maximum {
		entries = entries[:a.maximum]
	}

	raw, err := a.extractor.complete(ctx, BuildSuggestionPrompt(lang), []types.Message{
		{Role: types.RoleUser, Content: BuildSuggestionInput(lang, entries, loc)},
	})
	if err != nil {
		return types.Suggestions{}, err
	}
	return ParseSuggestions(raw, lang), nil
}

// ParseSuggestions never fails; missing pieces come from the canned advice.
func ParseSuggestions(raw string, lang types.Language) types.Suggestions {
	fallback, ok := fallbackSuggestions[lang]
	if !ok {
		fallback = fallbackSuggestions[types.LanguageEN]
	}
	fallback.FitnessSuggestions = []string{}
	fallback.DietSuggestions = []string{}

	obj, ok := RecoverObject(raw)
	if !ok {
		return fallback
	}

	s := types.Suggestions{
		Summary:            stringValue(obj["summary"]),
		FitnessSuggestions: types.Fields(obj).Strings("fitness_suggestions"),
		DietSuggestions:    types.Fields(obj).Strings("diet_suggestions"),
		Encouragement:      stringValue(obj["encouragement"]),
	}
	if s.Summary == "" {
		s.Summary = fallback.Summary
	}
	if s.Encouragement == "" {
		s.Encouragement = fallback.Encouragement
	}
	if s.FitnessSuggestions == nil {
		s.FitnessSuggestions = []string{}
	}
	if s.DietSuggestions == nil {
		s.DietSuggestions = []string{}
	}
	return s
}
