package models

import "time"

// CallLog records an operator call against a deal, entered either through the
// REST API or the assistant's log_call tool.
type CallLog struct {
	ID         int       `json:"id"`
	DealID     *int      `json:"deal_id"`
	ClientName string    `json:"client_name"`
	Summary    string    `json:"summary"`
	Outcome    string    `json:"outcome"` // 'connected', 'voicemail', 'no_answer', 'follow_up'
	LoggedBy   string    `json:"logged_by"`
	CalledAt   time.Time `json:"called_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCallLogRequest represents the request body for logging a call
type CreateCallLogRequest struct {
	DealID     *int       `json:"deal_id"`
	ClientName string     `json:"client_name"`
	Summary    string     `json:"summary"`
	Outcome    string     `json:"outcome"`
	LoggedBy   string     `json:"logged_by"`
	CalledAt   *time.Time `json:"called_at"`
}
