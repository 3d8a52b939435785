package analytics

import (
	"encoding/json"
	"math"
	"strconv"

	"clementus360/simpliday/types"
)

// Average is undefined when nothing was averaged. It renders as a
// placeholder, never as 0.
type Average struct {
	Value float64
	Valid bool
}

// Placeholder is displayed for an undefined average.
const Placeholder = "-"

func averageOf(sum float64, n int) Average {
	if n == 0 {
		return Average{}
	}
	return Average{Value: sum / float64(n), Valid: true}
}

// Rounded is the nearest integer, used for the daily view.
func (a Average) Rounded() (int, bool) {
	if !a.Valid {
		return 0, false
	}
	return int(math.Round(a.Value)), true
}

// OneDecimal is used for week, month and all-time views.
func (a Average) OneDecimal() (float64, bool) {
	if !a.Valid {
		return 0, false
	}
	return math.Round(a.Value*10) / 10, true
}

// Display formats the average with the given number of decimals.
func (a Average) Display(decimals int) string {
	if !a.Valid {
		return Placeholder
	}
	if decimals <= 0 {
		v, _ := a.Rounded()
		return strconv.Itoa(v)
	}
	return strconv.FormatFloat(a.Value, 'f', decimals, 64)
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	v, _ := a.OneDecimal()
	return json.Marshal(v)
}

type FitnessTotals struct {
	Count          int     `json:"count"`
	Duration       float64 `json:"duration"`
	CaloriesBurned float64 `json:"calories_burned"`
}

type DietTotals struct {
	Count          int     `json:"count"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fat            float64 `json:"fat"`
	ProteinPerMeal Average `json:"protein_per_meal"`
}

// Summary aggregates a window of entries.
type Summary struct {
	Total   int                     `json:"total"`
	Counts  map[types.EntryType]int `json:"counts"`
	Fitness FitnessTotals           `json:"fitness"`
	Diet    DietTotals              `json:"diet"`
	Mood    Average                 `json:"mood_average"`
	Energy  Average                 `json:"energy_average"`
}

// Summarize sums the numeric fields per type, treating missing or
// non-numeric values as 0. Mood and energy are averaged over every entry of
// their type; an entry without a usable score counts as 0.
func Summarize(entries []types.Entry) Summary {
	s := Summary{Counts: make(map[types.EntryType]int, len(types.EntryTypes))}
	for _, t := range types.EntryTypes {
		s.Counts[t] = 0
	}

	var moodSum, energySum float64
	var moodN, energyN int

	for _, e := range entries {
		s.Total++
		// unrecognized types decode as other
		d := e.Details()
		s.Counts[d.EntryType()]++

		switch d := d.(type) {
		case types.FitnessDetails:
			s.Fitness.Count++
			s.Fitness.Duration += valueOr(d.Duration)
			s.Fitness.CaloriesBurned += valueOr(d.CaloriesBurned)
		case types.DietDetails:
			s.Diet.Count++
			s.Diet.Calories += valueOr(d.Calories)
			s.Diet.Protein += valueOr(d.Protein)
			s.Diet.Carbs += valueOr(d.Carbs)
			s.Diet.Fat += valueOr(d.Fat)
		case types.MoodDetails:
			moodN++
			if d.Score != nil {
				moodSum += float64(*d.Score)
			}
		case types.EnergyDetails:
			energyN++
			if d.Level != nil {
				energySum += float64(*d.Level)
			}
		}
	}

	s.Mood = averageOf(moodSum, moodN)
	s.Energy = averageOf(energySum, energyN)
	s.Diet.ProteinPerMeal = averageOf(s.Diet.Protein, s.Diet.Count)
	return s
}

// normalizeType files unrecognized types under other.
func normalizeType(t types.EntryType) types.EntryType {
	if !t.Valid() {
		return types.EntryOther
	}
	return t
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Distribution counts entries per type, for the type chart. Types without
// entries are left out.
func Distribution(entries []types.Entry) map[types.EntryType]int {
	out := make(map[types.EntryType]int)
	for _, e := range entries {
		out[normalizeType(e.Type)]++
	}
	return out
}

// GroupByType keeps at most perType entries of each type, in input order.
// Unrecognized types are grouped under other. perType <= 0 keeps everything.
func GroupByType(entries []types.Entry, perType int) map[types.EntryType][]types.Entry {
	out := make(map[types.EntryType][]types.Entry)
	for _, e := range entries {
		t := normalizeType(e.Type)
		if perType > 0 && len(out[t]) >= perType {
			continue
		}
		out[t] = append(out[t], e)
	}
	return out
}
