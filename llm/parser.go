package llm

import (
	"strings"

	"clementus360/simpliday/types"
)

var didNotUnderstand = map[types.Language]string{
	types.LanguageEN: "Sorry, I didn't quite understand. Could you say that again?",
	types.LanguageZH: "抱歉，我没太理解。你可以再说一遍吗？",
}

// DidNotUnderstand is the canned reply for blank model output.
func DidNotUnderstand(lang types.Language) string {
	if msg, ok := didNotUnderstand[lang]; ok {
		return msg
	}
	return didNotUnderstand[types.LanguageEN]
}

// ParseExtraction turns raw model output into drafts plus a reply. It never
// fails: text that holds no recoverable object becomes the reply itself.
// utterance is the user message the output answers; it stands in for missing
// draft content.
func ParseExtraction(raw, utterance string, lang types.Language) types.ExtractionResult {
	obj, ok := RecoverObject(raw)
	if !ok {
		return createFallbackResult(raw, lang)
	}
	return resolveShape(obj, utterance)
}

func createFallbackResult(raw string, lang types.Language) types.ExtractionResult {
	// Use raw text if non-empty
	if reply := strings.TrimSpace(raw); reply != "" {
		return types.ExtractionResult{Entries: []types.EntryDraft{}, Reply: reply}
	}
	return types.ExtractionResult{Entries: []types.EntryDraft{}, Reply: DidNotUnderstand(lang)}
}

// resolveShape matches the recovered object against the current
// {entries, reply} shape, then the single-record {should_record, type,
// parsed_data} shape, then treats it as reply-only.
func resolveShape(obj map[string]any, utterance string) types.ExtractionResult {
	result := types.ExtractionResult{
		Entries: []types.EntryDraft{},
		Reply:   stringValue(obj["reply"]),
	}

	if list, ok := obj["entries"].([]any); ok {
		for _, item := range list {
			if draft, ok := draftFromItem(item, utterance); ok {
				result.Entries = append(result.Entries, draft)
			}
		}
		return result
	}

	if _, legacy := obj["should_record"]; legacy {
		if !boolValue(obj["should_record"]) {
			return result
		}
		t, ok := types.ParseEntryType(stringValue(obj["type"]))
		if !ok {
			return result
		}
		fields, _ := obj["parsed_data"].(map[string]any)
		result.Entries = append(result.Entries, types.EntryDraft{
			Type:    t,
			Content: strings.TrimSpace(utterance),
			Fields:  types.NormalizeFields(t, fields),
		})
		return result
	}

	return result
}

func draftFromItem(item any, utterance string) (types.EntryDraft, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return types.EntryDraft{}, false
	}
	t, ok := types.ParseEntryType(stringValue(m["type"]))
	if !ok {
		return types.EntryDraft{}, false
	}

	content := stringValue(m["content"])
	if content == "" {
		content = strings.TrimSpace(utterance)
	}

	fields, _ := m["parsed_data"].(map[string]any)
	return types.EntryDraft{
		Type:    t,
		Content: content,
		Fields:  types.NormalizeFields(t, fields),
	}, true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func boolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	}
	return false
}
