package domain

// ChatResult is the outcome of one full conversation turn: the assistant's
// textual reply plus the identifiers the caller needs to follow up.
type ChatResult struct {
	Response string `json:"response"`
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// ThreadMessage is one turn of a conversation as returned to clients,
// oldest first, with all text segments of the turn concatenated.
type ThreadMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}
