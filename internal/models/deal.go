package models

import "time"

// DealStatus is the sales pipeline status of a deal.
type DealStatus string

const (
	DealStatusLead        DealStatus = "lead"
	DealStatusQualified   DealStatus = "qualified"
	DealStatusProposal    DealStatus = "proposal"
	DealStatusNegotiation DealStatus = "negotiation"
	DealStatusWon         DealStatus = "won"
	DealStatusLost        DealStatus = "lost"
)

// IsValid reports whether s is one of the canonical pipeline statuses.
// Unknown strings are rejected at the API boundary rather than stored.
func (s DealStatus) IsValid() bool {
	switch s {
	case DealStatusLead, DealStatusQualified, DealStatusProposal,
		DealStatusNegotiation, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// IsWonEntry reports whether a transition from old to new is the one-time
// entry into the won state. A deal already won stays won without re-firing.
func IsWonEntry(old, new DealStatus) bool {
	return new == DealStatusWon && old != DealStatusWon
}

type Deal struct {
	ID               int        `json:"id"`
	ClientName       string     `json:"client_name"`
	ClientEmail      string     `json:"client_email"`
	ClientPhone      string     `json:"client_phone"`
	Company          string     `json:"company"`
	EventTitle       string     `json:"event_title"`
	EventDate        *time.Time `json:"event_date"`
	EventLocation    string     `json:"event_location"`
	EventType        string     `json:"event_type"`
	AttendeeCount    int        `json:"attendee_count"`
	BudgetRange      string     `json:"budget_range"`
	DealValue        float64    `json:"deal_value"`
	Status           DealStatus `json:"status"`
	Priority         string     `json:"priority"`
	Source           string     `json:"source"`
	Notes            string     `json:"notes"`
	SpeakerRequested string     `json:"speaker_requested"`
	SpeakerName      string     `json:"speaker_name"`
	ContractSigned   bool       `json:"contract_signed"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateDealRequest represents the request body for creating a deal
type CreateDealRequest struct {
	ClientName       string     `json:"client_name"`
	ClientEmail      string     `json:"client_email"`
	ClientPhone      string     `json:"client_phone"`
	Company          string     `json:"company"`
	EventTitle       string     `json:"event_title"`
	EventDate        *time.Time `json:"event_date"`
	EventLocation    string     `json:"event_location"`
	EventType        string     `json:"event_type"`
	AttendeeCount    int        `json:"attendee_count"`
	BudgetRange      string     `json:"budget_range"`
	DealValue        float64    `json:"deal_value"`
	Status           DealStatus `json:"status"`
	Priority         string     `json:"priority"`
	Source           string     `json:"source"`
	Notes            string     `json:"notes"`
	SpeakerRequested string     `json:"speaker_requested"`
}

// UpdateDealRequest represents a partial update. Nil fields are left
// unchanged; PUT and PATCH share this shape.
type UpdateDealRequest struct {
	ClientName           *string     `json:"client_name,omitempty"`
	ClientEmail          *string     `json:"client_email,omitempty"`
	ClientPhone          *string     `json:"client_phone,omitempty"`
	Company              *string     `json:"company,omitempty"`
	EventTitle           *string     `json:"event_title,omitempty"`
	EventDate            *time.Time  `json:"event_date,omitempty"`
	EventLocation        *string     `json:"event_location,omitempty"`
	EventType            *string     `json:"event_type,omitempty"`
	AttendeeCount        *int        `json:"attendee_count,omitempty"`
	BudgetRange          *string     `json:"budget_range,omitempty"`
	DealValue            *float64    `json:"deal_value,omitempty"`
	Status               *DealStatus `json:"status,omitempty"`
	Priority             *string     `json:"priority,omitempty"`
	Source               *string     `json:"source,omitempty"`
	Notes                *string     `json:"notes,omitempty"`
	SpeakerRequested     *string     `json:"speaker_requested,omitempty"`
	SpeakerName          *string     `json:"speaker_name,omitempty"`
	ContractSigned       *bool       `json:"contract_signed,omitempty"`
	CommissionPercentage *float64    `json:"commission_percentage,omitempty"`
	CommissionAmount     *float64    `json:"commission_amount,omitempty"`
	SpeakerFee           *float64    `json:"speaker_fee,omitempty"`
}

// DealUpdateResult is the response payload for a deal update. Project
// creation metadata is attached only when a won-entry transition fired.
type DealUpdateResult struct {
	Deal                 *Deal  `json:"deal"`
	Message              string `json:"message,omitempty"`
	ProjectCreated       bool   `json:"projectCreated"`
	ProjectID            *int   `json:"projectId,omitempty"`
	ProjectCreationError string `json:"projectCreationError,omitempty"`
}
