package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	codeBlockRegex     = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\\r?\\n?(.*?)```")
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
)

// RecoverObject pulls a JSON object out of raw model output. It tries, in
// order: the fenced code block content (or the whole text), the span from the
// first '{' to the last '}' of the original text, and that span with trailing
// commas removed.
func RecoverObject(raw string) (map[string]any, bool) {
	candidate := raw
	if inner, found := extractFromCodeBlock(raw); found {
		candidate = inner
	}

	if obj, ok := decodeObject(candidate); ok {
		return obj, true
	}

	span, found := extractFromBraces(raw)
	if !found {
		return nil, false
	}
	if obj, ok := decodeObject(span); ok {
		return obj, true
	}
	return decodeObject(repairMalformedJSON(span))
}

// Extract the content of the first markdown code block
func extractFromCodeBlock(text string) (string, bool) {
	matches := codeBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1]), true
	}
	return "", false
}

// Take everything from the first '{' to the last '}'
func extractFromBraces(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Remove trailing commas before } or ]
func repairMalformedJSON(text string) string {
	return trailingCommaRegex.ReplaceAllString(text, "$1")
}

func decodeObject(text string) (map[string]any, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	return obj, obj != nil
}
