package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields is the open key/value payload extracted for an entry. Values arrive
// from a language model and are never trusted; use the accessors.
type Fields map[string]any

// Number returns a numeric field, accepting JSON numbers and numeric strings.
func (f Fields) Number(key string) (float64, bool) {
	if f == nil {
		return 0, false
	}
	return toNumber(f[key])
}

// NumberOr returns the numeric field or zero.
func (f Fields) NumberOr(key string) float64 {
	n, _ := f.Number(key)
	return n
}

func (f Fields) String(key string) string {
	if f == nil {
		return ""
	}
	switch v := f[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// Strings returns a list field. A single string is treated as a one-element list.
func (f Fields) Strings(key string) []string {
	if f == nil {
		return nil
	}
	var out []string
	switch v := f[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// Score returns a 1-10 integer score, absent when out of range.
func (f Fields) Score(key string) (int, bool) {
	n, ok := f.Number(key)
	if !ok {
		return 0, false
	}
	s := int(math.Round(n))
	if s < 1 || s > 10 {
		return 0, false
	}
	return s, true
}

func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

var intensityLabels = map[string]string{
	"low":    "low",
	"medium": "medium",
	"high":   "high",
	"低":      "low",
	"中":      "medium",
	"高":      "high",
}

func normalizeIntensity(s string) string {
	return intensityLabels[strings.ToLower(strings.TrimSpace(s))]
}

// NormalizeFields coerces the recognized keys of a type at the ingestion
// boundary. Unknown keys are kept as-is; recognized keys holding values that
// cannot be coerced are dropped.
func NormalizeFields(t EntryType, f Fields) Fields {
	if f == nil {
		return Fields{}
	}
	out := f.Clone()

	numeric := func(keys ...string) {
		for _, k := range keys {
			if _, present := out[k]; !present {
				continue
			}
			if n, ok := f.Number(k); ok {
				out[k] = n
			} else {
				delete(out, k)
			}
		}
	}
	score := func(k string) {
		if _, present := out[k]; !present {
			return
		}
		if s, ok := f.Score(k); ok {
			out[k] = s
		} else {
			delete(out, k)
		}
	}

	switch t {
	case EntryFitness:
		numeric("duration", "calories_burned")
		if _, present := out["intensity"]; present {
			if norm := normalizeIntensity(f.String("intensity")); norm != "" {
				out["intensity"] = norm
			} else {
				delete(out, "intensity")
			}
		}
	case EntryDiet:
		numeric("calories", "protein", "carbs", "fat")
	case EntryMood:
		score("mood_score")
		if _, present := out["mood_keywords"]; present {
			if kw := f.Strings("mood_keywords"); len(kw) > 0 {
				out["mood_keywords"] = kw
			} else {
				delete(out, "mood_keywords")
			}
		}
	case EntryEnergy:
		score("energy_level")
	}
	return out
}
