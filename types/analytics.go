package types

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type InsightsResponse struct {
	Success      bool              `json:"success"`
	Distribution map[EntryType]int `json:"distribution"`
	Last7Days    []DayCount        `json:"last_7_days"`
	Total        int               `json:"total"`
	ErrorMessage string            `json:"error,omitempty"`
}
