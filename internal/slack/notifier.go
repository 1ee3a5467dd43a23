package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Notifier delivers a message to the team channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// WebhookService posts messages to a Slack incoming webhook. Callers that
// want fire-and-forget semantics wrap it (see services.NotificationService);
// this type reports errors honestly.
type WebhookService struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookService(webhookURL string) *WebhookService {
	return &WebhookService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *WebhookService) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// MockService logs messages instead of delivering them. Used when
// SLACK_WEBHOOK_URL is not configured.
type MockService struct{}

func NewMockService() *MockService {
	return &MockService{}
}

func (s *MockService) Send(_ context.Context, msg Message) error {
	log.Printf("[Slack] (mock) %s", msg.Text)
	return nil
}
