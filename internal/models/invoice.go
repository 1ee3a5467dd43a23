package models

import "time"

// Invoice status values
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
	InvoiceStatusVoid  = "void"
)

// Invoice represents a generated invoice for a project
type Invoice struct {
	ID            int        `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	ProjectID     int        `json:"project_id"`
	ClientName    string     `json:"client_name"`
	ClientEmail   string     `json:"client_email"`
	Company       string     `json:"company"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"` // draft, sent, paid, void
	DueDate       *time.Time `json:"due_date"`
	PaidAt        *time.Time `json:"paid_at"`
	Notes         string     `json:"notes"`
	PDFArchiveKey string     `json:"pdf_archive_key,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateInvoiceRequest represents the request to create an invoice
type CreateInvoiceRequest struct {
	ProjectID int        `json:"project_id"`
	Amount    float64    `json:"amount"`
	Currency  string     `json:"currency"`
	DueDate   *time.Time `json:"due_date"`
	Notes     string     `json:"notes"`
}
