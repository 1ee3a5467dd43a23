package models

import "time"

type Speaker struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	Topics    string    `json:"topics"` // Comma-separated topic list
	FeeRange  string    `json:"fee_range"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	Rating    float64   `json:"rating"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSpeakerRequest represents the request body for adding a speaker
type CreateSpeakerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Topics   string `json:"topics"`
	FeeRange string `json:"fee_range"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// UpdateSpeakerRequest represents a partial speaker update
type UpdateSpeakerRequest struct {
	Name     *string  `json:"name,omitempty"`
	Email    *string  `json:"email,omitempty"`
	Phone    *string  `json:"phone,omitempty"`
	Bio      *string  `json:"bio,omitempty"`
	Topics   *string  `json:"topics,omitempty"`
	FeeRange *string  `json:"fee_range,omitempty"`
	Location *string  `json:"location,omitempty"`
	Website  *string  `json:"website,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}
