package types

import (
	"strings"
	"time"
)

type EntryType string

const (
	EntryFitness EntryType = "fitness"
	EntryDiet    EntryType = "diet"
	EntryMood    EntryType = "mood"
	EntryEnergy  EntryType = "energy"
	EntryOther   EntryType = "other"
)

// EntryTypes lists every recognized type in display order.
var EntryTypes = []EntryType{EntryFitness, EntryDiet, EntryMood, EntryEnergy, EntryOther}

func (t EntryType) Valid() bool {
	switch t {
	case EntryFitness, EntryDiet, EntryMood, EntryEnergy, EntryOther:
		return true
	}
	return false
}

// ParseEntryType maps a model-produced label onto a known type. Unrecognized
// labels become EntryOther; ok is false only when the label is blank.
func ParseEntryType(s string) (EntryType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	t := EntryType(s)
	if !t.Valid() {
		return EntryOther, true
	}
	return t, true
}

type Entry struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"user_id"`
	Type       EntryType `json:"type"`
	Content    string    `json:"content"`
	ParsedData Fields    `json:"parsed_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// Details returns the typed view of the entry's parsed data.
func (e Entry) Details() Details {
	return DecodeDetails(e.Type, e.ParsedData)
}

type CreateEntryRequest struct {
	Type       EntryType `json:"type"`
	Content    string    `json:"content"`
	ParsedData Fields    `json:"parsed_data,omitempty"`
}

type UpdateEntryRequest struct {
	Content    string `json:"content"`
	ParsedData Fields `json:"parsed_data,omitempty"`
	Reextract  bool   `json:"reextract,omitempty"`
}

type EntryResponse struct {
	Success      bool   `json:"success"`
	Entry        *Entry `json:"entry,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

type GetEntriesResponse struct {
	Success      bool    `json:"success"`
	Entries      []Entry `json:"entries"`
	Limit        int     `json:"limit,omitempty"`
	ErrorMessage string  `json:"error,omitempty"`
}

type DeleteEntryResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
