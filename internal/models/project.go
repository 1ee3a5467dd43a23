package models

import "time"

// ProjectStatus is the delivery lifecycle status of a project.
type ProjectStatus string

const (
	ProjectStatusInvoicing ProjectStatus = "invoicing"
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusInvoicing, ProjectStatusPlanning, ProjectStatusActive,
		ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

// DefaultCommissionPercentage is the bureau's cut when no override is given.
const DefaultCommissionPercentage = 20.0

// DeriveFinancials splits a deal value into commission and speaker fee.
// commission = dealValue * commissionPct / 100, fee = dealValue - commission.
// Deterministic over its inputs; callers pass DefaultCommissionPercentage
// when no override is supplied.
func DeriveFinancials(dealValue, commissionPct float64) (commissionAmount, speakerFee float64) {
	commissionAmount = dealValue * commissionPct / 100
	speakerFee = dealValue - commissionAmount
	return commissionAmount, speakerFee
}

// Project represents a won engagement that must be delivered and invoiced.
// DealID is a real foreign key to the originating deal and is UNIQUE, so a
// deal can produce at most one project no matter how often it is re-won.
// It is nil for projects created directly, and nulled out if the deal is
// later deleted.
type Project struct {
	ID                   int           `json:"id"`
	DealID               *int          `json:"deal_id"`
	ProjectName          string        `json:"project_name"`
	ClientName           string        `json:"client_name"`
	ClientEmail          string        `json:"client_email"`
	ClientPhone          string        `json:"client_phone"`
	Company              string        `json:"company"`
	ProjectType          string        `json:"project_type"`
	Description          string        `json:"description"`
	Status               ProjectStatus `json:"status"`
	Priority             string        `json:"priority"`
	StartDate            *time.Time    `json:"start_date"`
	Deadline             *time.Time    `json:"deadline"`
	Budget               float64       `json:"budget"`
	Spent                float64       `json:"spent"`
	CompletionPercentage int           `json:"completion_percentage"`
	EventDate            *time.Time    `json:"event_date"`
	EventLocation        string        `json:"event_location"`
	EventType            string        `json:"event_type"`
	BillingContact       string        `json:"billing_contact"`
	LogisticsContact     string        `json:"logistics_contact"`
	SpeakerName          string        `json:"speaker_name"`
	SpeakerFee           float64       `json:"speaker_fee"`
	CommissionPercentage float64       `json:"commission_percentage"`
	CommissionAmount     float64       `json:"commission_amount"`
	Tags                 string        `json:"tags"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// CreateProjectRequest represents the request body for creating a project
// directly, outside the deal-won derivation path.
type CreateProjectRequest struct {
	DealID               *int          `json:"deal_id"`
	ProjectName          string        `json:"project_name"`
	ClientName           string        `json:"client_name"`
	ClientEmail          string        `json:"client_email"`
	ClientPhone          string        `json:"client_phone"`
	Company              string        `json:"company"`
	ProjectType          string        `json:"project_type"`
	Description          string        `json:"description"`
	Status               ProjectStatus `json:"status"`
	Priority             string        `json:"priority"`
	StartDate            *time.Time    `json:"start_date"`
	Deadline             *time.Time    `json:"deadline"`
	Budget               float64       `json:"budget"`
	SpeakerName          string        `json:"speaker_name"`
	SpeakerFee           float64       `json:"speaker_fee"`
	CommissionPercentage float64       `json:"commission_percentage"`
	CommissionAmount     float64       `json:"commission_amount"`
	Tags                 string        `json:"tags"`
}

// UpdateProjectRequest represents a partial project update.
type UpdateProjectRequest struct {
	ProjectName          *string        `json:"project_name,omitempty"`
	Description          *string        `json:"description,omitempty"`
	Status               *ProjectStatus `json:"status,omitempty"`
	Priority             *string        `json:"priority,omitempty"`
	StartDate            *time.Time     `json:"start_date,omitempty"`
	Deadline             *time.Time     `json:"deadline,omitempty"`
	Budget               *float64       `json:"budget,omitempty"`
	Spent                *float64       `json:"spent,omitempty"`
	CompletionPercentage *int           `json:"completion_percentage,omitempty"`
	BillingContact       *string        `json:"billing_contact,omitempty"`
	LogisticsContact     *string        `json:"logistics_contact,omitempty"`
	SpeakerName          *string        `json:"speaker_name,omitempty"`
	Tags                 *string        `json:"tags,omitempty"`
}
