package types

// Details is the typed view of an entry's fields. Absent values are nil.
type Details interface {
	EntryType() EntryType
}

type FitnessDetails struct {
	Exercise       string   `json:"exercise,omitempty"`
	Duration       *float64 `json:"duration,omitempty"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty"`
	Intensity      string   `json:"intensity,omitempty"`
}

type DietDetails struct {
	Food     string   `json:"food,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

type MoodDetails struct {
	Score    *int     `json:"mood_score,omitempty"`
	Keywords []string `json:"mood_keywords,omitempty"`
}

type EnergyDetails struct {
	Level  *int   `json:"energy_level,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type OtherDetails struct {
	Fields Fields `json:"fields,omitempty"`
}

func (FitnessDetails) EntryType() EntryType { return EntryFitness }
func (DietDetails) EntryType() EntryType    { return EntryDiet }
func (MoodDetails) EntryType() EntryType    { return EntryMood }
func (EnergyDetails) EntryType() EntryType  { return EntryEnergy }
func (OtherDetails) EntryType() EntryType   { return EntryOther }

// DecodeDetails builds the typed view for t, coercing every value safely.
func DecodeDetails(t EntryType, f Fields) Details {
	switch t {
	case EntryFitness:
		return FitnessDetails{
			Exercise:       f.String("exercise"),
			Duration:       numberPtr(f, "duration"),
			CaloriesBurned: numberPtr(f, "calories_burned"),
			Intensity:      normalizeIntensity(f.String("intensity")),
		}
	case EntryDiet:
		return DietDetails{
			Food:     f.String("food"),
			Calories: numberPtr(f, "calories"),
			Protein:  numberPtr(f, "protein"),
			Carbs:    numberPtr(f, "carbs"),
			Fat:      numberPtr(f, "fat"),
		}
	case EntryMood:
		return MoodDetails{
			Score:    scorePtr(f, "mood_score"),
			Keywords: f.Strings("mood_keywords"),
		}
	case EntryEnergy:
		return EnergyDetails{
			Level:  scorePtr(f, "energy_level"),
			Reason: f.String("reason"),
		}
	default:
		return OtherDetails{Fields: f}
	}
}

func numberPtr(f Fields, key string) *float64 {
	if n, ok := f.Number(key); ok {
		return &n
	}
	return nil
}

func scorePtr(f Fields, key string) *int {
	if s, ok := f.Score(key); ok {
		return &s
	}
	return nil
}
