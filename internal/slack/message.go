package slack

import (
	"fmt"
	"time"

	"bureau-backend/internal/models"
)

// Message is a Slack incoming-webhook payload.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is a minimal Slack Block Kit section.
type Block struct {
	Type string     `json:"type"`
	Text *BlockText `json:"text,omitempty"`
}

type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func section(markdown string) Block {
	return Block{Type: "section", Text: &BlockText{Type: "mrkdwn", Text: markdown}}
}

// StatusUpdateInfo carries the fields shown in a generic status-change message.
type StatusUpdateInfo struct {
	DealID     int
	EventTitle string
	ClientName string
	OldStatus  models.DealStatus
	NewStatus  models.DealStatus
	DealValue  float64
	UpdatedBy  string
}

// WonDealInfo carries the fields shown in a won-deal announcement.
type WonDealInfo struct {
	DealID      int
	EventTitle  string
	ClientName  string
	Company     string
	DealValue   float64
	SpeakerName string
	EventDate   *time.Time
}

// BuildDealStatusUpdateMessage formats a pipeline status change. Pure
// formatting, no I/O.
func BuildDealStatusUpdateMessage(info StatusUpdateInfo) Message {
	text := fmt.Sprintf("Deal #%d moved from %s to %s", info.DealID, info.OldStatus, info.NewStatus)

	body := fmt.Sprintf("*%s* (%s)\nStatus: `%s` -> `%s`\nValue: $%.2f",
		info.EventTitle, info.ClientName, info.OldStatus, info.NewStatus, info.DealValue)
	if info.UpdatedBy != "" {
		body += fmt.Sprintf("\nUpdated by: %s", info.UpdatedBy)
	}

	return Message{
		Text: text,
		Blocks: []Block{
			section(fmt.Sprintf(":arrows_counterclockwise: *Deal #%d status update*", info.DealID)),
			section(body),
		},
	}
}

// BuildDealWonMessage formats the won-deal announcement, visually distinct
// from a generic status update.
func BuildDealWonMessage(info WonDealInfo) Message {
	text := fmt.Sprintf("Deal #%d won: %s (%s)", info.DealID, info.EventTitle, info.ClientName)

	body := fmt.Sprintf("*%s*\nClient: %s (%s)\nValue: $%.2f",
		info.EventTitle, info.ClientName, info.Company, info.DealValue)
	if info.SpeakerName != "" {
		body += fmt.Sprintf("\nSpeaker: %s", info.SpeakerName)
	}
	if info.EventDate != nil {
		body += fmt.Sprintf("\nEvent date: %s", info.EventDate.Format("Jan 2, 2006"))
	}

	return Message{
		Text: text,
		Blocks: []Block{
			section(fmt.Sprintf(":tada: *Deal #%d WON*", info.DealID)),
			section(body),
		},
	}
}
