package services

import (
	"testing"
	"time"

	"bureau-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoicePDF(t *testing.T) {
	eventDate := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2026, 11, 12, 0, 0, 0, 0, time.UTC)
	dealID := 3

	inv := &models.Invoice{
		ID:            1,
		ProjectID:     4,
		InvoiceNumber: "INV-000042",
		ClientName:    "Acme Corp",
		ClientEmail:   "events@acme.test",
		Company:       "Acme Corporation",
		Amount:        12500,
		Currency:      "USD",
		Status:        models.InvoiceStatusDraft,
		DueDate:       &dueDate,
		Notes:         "Net 30.",
		CreatedAt:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	project := &models.Project{
		ID:            4,
		DealID:        &dealID,
		ProjectName:   "AI Summit Keynote",
		ClientName:    "Acme Corp",
		SpeakerName:   "Dr. Rivera",
		EventDate:     &eventDate,
		EventLocation: "Austin, TX",
	}

	data, err := renderInvoicePDF(inv, project)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, len(data) > 500, "rendered PDF suspiciously small: %d bytes", len(data))
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInvoicePDFWithoutOptionalFields(t *testing.T) {
	inv := &models.Invoice{
		InvoiceNumber: "INV-000001",
		ClientName:    "Client",
		Amount:        500,
		Currency:      "USD",
		Status:        models.InvoiceStatusDraft,
		CreatedAt:     time.Now(),
	}
	project := &models.Project{ProjectName: "Panel"}

	data, err := renderInvoicePDF(inv, project)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
