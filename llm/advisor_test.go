package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clementus360/simpliday/types"
)

func TestSuggestRequiresMinimumEntries(t *testing.T) {
	called := false
	adv := NewAdvisor(NewExtractor(ProviderFunc(func(ctx context.Context, s string, m []types.Message) (string, error) {
		called = true
		return "{}", nil
	}), time.Second))

	_, err := adv.Suggest(context.Background(), testEntries(2, time.Now()), types.LanguageEN, time.UTC)
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError", err)
	}
	if called {
		t.Error("provider should not be called with too few entries")
	}
}

func TestSuggestUsesNewestTwenty(t *testing.T) {
	var input string
	adv := NewAdvisor(NewExtractor(ProviderFunc(func(ctx context.Context, s string, m []types.Message) (string, error) {
		input = m[0].Content
		return `{"summary":"Solid week","fitness_suggestions":["Add a rest day"],"diet_suggestions":["More protein"],"encouragement":"Keep going"}`, nil
	}), time.Second))

	got, err := adv.Suggest(context.Background(), testEntries(25, time.Now()), types.LanguageEN, time.UTC)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if n := strings.Count(input, "\n[diet]"); n != 20 {
		t.Errorf("sent %d entries, want 20", n)
	}
	if strings.Contains(input, "meal 20") {
		t.Error("older entries should be dropped")
	}
	if got.Summary != "Solid week" || len(got.FitnessSuggestions) != 1 || got.DietSuggestions[0] != "More protein" {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestParseSuggestionsFallback(t *testing.T) {
	got := ParseSuggestions("the model rambled", types.LanguageEN)
	if got.Summary != "Keep up the tracking habit!" || got.Encouragement != "You are doing great!" {
		t.Errorf("en fallback = %+v", got)
	}
	if got.FitnessSuggestions == nil || got.DietSuggestions == nil {
		t.Error("fallback lists should be empty, not nil")
	}

	zh := ParseSuggestions("", types.LanguageZH)
	if zh.Summary != "继续保持记录习惯！" || zh.Encouragement != "你做得很好！" {
		t.Errorf("zh fallback = %+v", zh)
	}

	partial := ParseSuggestions(`{"fitness_suggestions": "Walk daily"}`, types.LanguageEN)
	if len(partial.FitnessSuggestions) != 1 || partial.Summary != "Keep up the tracking habit!" {
		t.Errorf("partial = %+v", partial)
	}
}
