package analytics

import (
	"fmt"
	"sort"
	"time"

	"clementus360/simpliday/types"
)

const dayLayout = "2006-01-02"

type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"
)

func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeToday, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	case "":
		return RangeWeek, nil
	}
	return "", &types.ValidationError{Field: "range", Message: fmt.Sprintf("unknown range %q", s)}
}

// DayKey is the local calendar date of t.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(dayLayout)
}

// StartOfDay is local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// RangeStart returns the lower bound of a range ending at now. Week and month
// are rolling windows of 7 and 30 days; today starts at local midnight; all
// has no bound.
func RangeStart(r Range, now time.Time, loc *time.Location) (time.Time, bool) {
	switch r {
	case RangeToday:
		return StartOfDay(now, loc), true
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case RangeMonth:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// OnDay keeps the entries created on the same local calendar day as day.
func OnDay(entries []types.Entry, day time.Time, loc *time.Location) []types.Entry {
	key := DayKey(day, loc)
	out := make([]types.Entry, 0)
	for _, e := range entries {
		if DayKey(e.CreatedAt, loc) == key {
			out = append(out, e)
		}
	}
	return out
}

// Since keeps the entries created at or after from.
func Since(entries []types.Entry, from time.Time) []types.Entry {
	out := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.CreatedAt.Before(from) {
			out = append(out, e)
		}
	}
	return out
}

// DailyCounts counts entries for each of the last days local days, oldest
// first, ending with the day of now.
func DailyCounts(entries []types.Entry, now time.Time, days int, loc *time.Location) []types.DayCount {
	if days <= 0 {
		return []types.DayCount{}
	}
	counts := make(map[string]int, days)
	for _, e := range entries {
		counts[DayKey(e.CreatedAt, loc)]++
	}

	today := StartOfDay(now, loc)
	out := make([]types.DayCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(dayLayout)
		out = append(out, types.DayCount{Date: key, Count: counts[key]})
	}
	return out
}

type DaySummary struct {
	Date    string  `json:"date"`
	Summary Summary `json:"summary"`
}

// ByDay summarizes each local day that has entries, newest first.
func ByDay(entries []types.Entry, loc *time.Location) []DaySummary {
	buckets := make(map[string][]types.Entry)
	var order []string
	for _, e := range entries {
		key := DayKey(e.CreatedAt, loc)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], e)
	}

	// Keys are ISO dates, so string order is date order.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	out := make([]DaySummary, 0, len(order))
	for _, key := range order {
		out = append(out, DaySummary{Date: key, Summary: Summarize(buckets[key])})
	}
	return out
}
