package slack

import (
	"testing"
	"time"

	"bureau-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDealStatusUpdateMessage(t *testing.T) {
	msg := BuildDealStatusUpdateMessage(StatusUpdateInfo{
		DealID:     42,
		EventTitle: "AI Summit Keynote",
		ClientName: "Acme Corp",
		OldStatus:  models.DealStatusProposal,
		NewStatus:  models.DealStatusNegotiation,
		DealValue:  15000,
		UpdatedBy:  "jordan@bureau.test",
	})

	assert.Contains(t, msg.Text, "Deal #42")
	assert.Contains(t, msg.Text, "proposal")
	assert.Contains(t, msg.Text, "negotiation")

	require.Len(t, msg.Blocks, 2)
	body := msg.Blocks[1].Text.Text
	assert.Contains(t, body, "AI Summit Keynote")
	assert.Contains(t, body, "Acme Corp")
	assert.Contains(t, body, "$15000.00")
	assert.Contains(t, body, "jordan@bureau.test")
}

func TestBuildDealStatusUpdateMessageOmitsEmptyUpdater(t *testing.T) {
	msg := BuildDealStatusUpdateMessage(StatusUpdateInfo{
		DealID:     1,
		EventTitle: "Workshop",
		ClientName: "Client",
		OldStatus:  models.DealStatusLead,
		NewStatus:  models.DealStatusQualified,
	})

	require.Len(t, msg.Blocks, 2)
	assert.NotContains(t, msg.Blocks[1].Text.Text, "Updated by")
}

func TestBuildDealWonMessage(t *testing.T) {
	eventDate := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	msg := BuildDealWonMessage(WonDealInfo{
		DealID:      7,
		EventTitle:  "Annual Sales Kickoff",
		ClientName:  "Globex",
		Company:     "Globex Inc",
		DealValue:   30000,
		SpeakerName: "Dr. Rivera",
		EventDate:   &eventDate,
	})

	assert.Contains(t, msg.Text, "Deal #7 won")

	require.Len(t, msg.Blocks, 2)
	assert.Contains(t, msg.Blocks[0].Text.Text, "WON")
	body := msg.Blocks[1].Text.Text
	assert.Contains(t, body, "Annual Sales Kickoff")
	assert.Contains(t, body, "Dr. Rivera")
	assert.Contains(t, body, "Nov 3, 2026")
}

func TestBuildDealWonMessageWithoutOptionalFields(t *testing.T) {
	msg := BuildDealWonMessage(WonDealInfo{
		DealID:     8,
		EventTitle: "Panel",
		ClientName: "Client",
		DealValue:  5000,
	})

	require.Len(t, msg.Blocks, 2)
	body := msg.Blocks[1].Text.Text
	assert.NotContains(t, body, "Speaker:")
	assert.NotContains(t, body, "Event date:")
}
