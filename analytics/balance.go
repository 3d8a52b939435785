package analytics

import (
	"clementus360/simpliday/config"
	"clementus360/simpliday/types"
)

type BalanceStatus string

const (
	StatusDeficit  BalanceStatus = "deficit"
	StatusBalanced BalanceStatus = "balanced"
	StatusSurplus  BalanceStatus = "surplus"
)

type Assessment string

const (
	Favorable   Assessment = "favorable"
	Neutral     Assessment = "neutral"
	Unfavorable Assessment = "unfavorable"
)

// CalorieBalance compares intake against expenditure for a day.
type CalorieBalance struct {
	CaloriesIn     float64       `json:"calories_in"`
	CaloriesBurned float64       `json:"calories_burned"`
	TDEE           int           `json:"tdee"`
	Net            float64       `json:"net"`
	Status         BalanceStatus `json:"status"`
	Goal           types.Goal    `json:"goal"`
	Assessment     Assessment    `json:"assessment"`
}

// Balance is only defined when the profile has a TDEE.
// net = calories in - tdee - calories burned.
func Balance(s Summary, profile *types.UserProfile) (CalorieBalance, bool) {
	if profile == nil || profile.TDEE == nil {
		return CalorieBalance{}, false
	}
	tdee := *profile.TDEE
	net := s.Diet.Calories - float64(tdee) - s.Fitness.CaloriesBurned
	status := Classify(net)
	goal := profile.GoalOrDefault()

	return CalorieBalance{
		CaloriesIn:     s.Diet.Calories,
		CaloriesBurned: s.Fitness.CaloriesBurned,
		TDEE:           tdee,
		Net:            net,
		Status:         status,
		Goal:           goal,
		Assessment:     Assess(status, goal),
	}, true
}

// Classify buckets a net balance using the configured threshold. Values on
// the threshold itself count as balanced.
func Classify(net float64) BalanceStatus {
	threshold := float64(config.ContextConfig.BalanceThreshold)
	switch {
	case net < -threshold:
		return StatusDeficit
	case net > threshold:
		return StatusSurplus
	}
	return StatusBalanced
}

// Assess judges a status against the user's goal.
func Assess(status BalanceStatus, goal types.Goal) Assessment {
	switch status {
	case StatusDeficit:
		if goal == types.GoalLose {
			return Favorable
		}
		return Unfavorable
	case StatusSurplus:
		if goal == types.GoalGain {
			return Favorable
		}
		return Unfavorable
	}
	if goal == types.GoalMaintain || goal == "" {
		return Favorable
	}
	return Neutral
}
