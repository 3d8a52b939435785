package types

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the rolling conversation history. It is never persisted.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Language  string `json:"language,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Success      bool         `json:"success"`
	SessionID    string       `json:"session_id,omitempty"`
	Reply        string       `json:"reply,omitempty"`
	State        string       `json:"state,omitempty"`
	Drafts       []EntryDraft `json:"drafts,omitempty"`
	Committed    []Entry      `json:"committed,omitempty"`
	ErrorMessage string       `json:"error,omitempty"` // only set on failure
}

type ChatStateResponse struct {
	Success   bool         `json:"success"`
	SessionID string       `json:"session_id"`
	State     string       `json:"state"`
	History   []Message    `json:"history"`
	Drafts    []EntryDraft `json:"drafts"`
}
