package services

import (
	"context"
	"log"

	"bureau-backend/internal/metrics"
	"bureau-backend/internal/slack"
)

// NotificationService delivers pipeline events to the team channel on a
// best-effort basis. Delivery failures are logged and counted but never
// returned: a notification must not abort or delay a business transition
// beyond the dispatcher's own timeout.
type NotificationService struct {
	notifier slack.Notifier
}

func NewNotificationService(notifier slack.Notifier) *NotificationService {
	return &NotificationService{notifier: notifier}
}

func (s *NotificationService) DealStatusChanged(ctx context.Context, info slack.StatusUpdateInfo) {
	s.send(ctx, slack.BuildDealStatusUpdateMessage(info))
}

func (s *NotificationService) DealWon(ctx context.Context, info slack.WonDealInfo) {
	s.send(ctx, slack.BuildDealWonMessage(info))
}

func (s *NotificationService) send(ctx context.Context, msg slack.Message) {
	if err := s.notifier.Send(ctx, msg); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		log.Printf("[Slack] Notification failed (suppressed): %v", err)
	}
}
