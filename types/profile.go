package types

import (
	"fmt"
	"math"
	"time"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"
)

// ParseLanguage falls back to English for anything it does not recognize.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageZH, "zh-CN", "zh-cn":
		return LanguageZH
	}
	return LanguageEN
}

type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
}

type UserProfile struct {
	ID            string         `json:"id"`
	Language      Language       `json:"language,omitempty"`
	Gender        *string        `json:"gender,omitempty"`
	Age           *int           `json:"age,omitempty"`
	HeightCM      *float64       `json:"height_cm,omitempty"`
	WeightKG      *float64       `json:"weight_kg,omitempty"`
	Goal          *Goal          `json:"goal,omitempty"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty"`
	Lifestyle     *string        `json:"lifestyle,omitempty"`
	TDEE          *int           `json:"tdee"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// ProfilePatch carries the fields of a profile save; nil means unchanged.
type ProfilePatch struct {
	Language      *Language      `json:"language,omitempty"`
	Gender        *string        `json:"gender,omitempty"`
	Age           *int           `json:"age,omitempty"`
	HeightCM      *float64       `json:"height_cm,omitempty"`
	WeightKG      *float64       `json:"weight_kg,omitempty"`
	Goal          *Goal          `json:"goal,omitempty"`
	ActivityLevel *ActivityLevel `json:"activity_level,omitempty"`
	Lifestyle     *string        `json:"lifestyle,omitempty"`
}

func (p ProfilePatch) Validate() error {
	if p.Language != nil && *p.Language != LanguageEN && *p.Language != LanguageZH {
		return &ValidationError{Field: "language", Message: "must be en or zh"}
	}
	if p.Gender != nil && *p.Gender != "male" && *p.Gender != "female" {
		return &ValidationError{Field: "gender", Message: "must be male or female"}
	}
	if p.Age != nil && (*p.Age <= 0 || *p.Age > 130) {
		return &ValidationError{Field: "age", Message: "out of range"}
	}
	if p.HeightCM != nil && (*p.HeightCM <= 0 || *p.HeightCM > 300) {
		return &ValidationError{Field: "height_cm", Message: "out of range"}
	}
	if p.WeightKG != nil && (*p.WeightKG <= 0 || *p.WeightKG > 500) {
		return &ValidationError{Field: "weight_kg", Message: "out of range"}
	}
	if p.Goal != nil {
		switch *p.Goal {
		case GoalLose, GoalMaintain, GoalGain:
		default:
			return &ValidationError{Field: "goal", Message: "must be lose, maintain or gain"}
		}
	}
	if p.ActivityLevel != nil {
		if _, ok := activityMultipliers[*p.ActivityLevel]; !ok {
			return &ValidationError{Field: "activity_level", Message: "unknown activity level"}
		}
	}
	return nil
}

// MergeProfile applies a patch onto the stored profile (nil for a new one) and
// recomputes the derived TDEE.
func MergeProfile(owner string, current *UserProfile, patch ProfilePatch) UserProfile {
	var p UserProfile
	if current != nil {
		p = *current
	}
	p.ID = owner
	if p.Language == "" {
		p.Language = LanguageEN
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.Gender != nil {
		p.Gender = patch.Gender
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.HeightCM != nil {
		p.HeightCM = patch.HeightCM
	}
	if patch.WeightKG != nil {
		p.WeightKG = patch.WeightKG
	}
	if patch.Goal != nil {
		p.Goal = patch.Goal
	}
	if patch.ActivityLevel != nil {
		p.ActivityLevel = patch.ActivityLevel
	}
	if patch.Lifestyle != nil {
		p.Lifestyle = patch.Lifestyle
	}
	p.RecomputeTDEE()
	return p
}

// RecomputeTDEE sets TDEE when every input is present and clears it otherwise.
func (p *UserProfile) RecomputeTDEE() {
	p.TDEE = nil
	if p.Gender == nil || p.Age == nil || p.HeightCM == nil || p.WeightKG == nil || p.ActivityLevel == nil {
		return
	}
	tdee, err := ComputeTDEE(*p.Gender, *p.Age, *p.HeightCM, *p.WeightKG, *p.ActivityLevel)
	if err != nil {
		return
	}
	p.TDEE = &tdee
}

// GoalOrDefault treats a missing goal as maintain.
func (p *UserProfile) GoalOrDefault() Goal {
	if p == nil || p.Goal == nil {
		return GoalMaintain
	}
	return *p.Goal
}

// BMR uses the Mifflin-St Jeor equation.
func BMR(gender string, age int, heightCM, weightKG float64) (float64, error) {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	switch gender {
	case "male":
		return base + 5, nil
	case "female":
		return base - 161, nil
	}
	return 0, fmt.Errorf("unknown gender %q", gender)
}

func ComputeTDEE(gender string, age int, heightCM, weightKG float64, level ActivityLevel) (int, error) {
	bmr, err := BMR(gender, age, heightCM, weightKG)
	if err != nil {
		return 0, err
	}
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, fmt.Errorf("unknown activity level %q", level)
	}
	return int(math.Round(bmr * mult)), nil
}

type ProfileResponse struct {
	Success      bool         `json:"success"`
	Profile      *UserProfile `json:"profile"`
	ErrorMessage string       `json:"error,omitempty"`
}
