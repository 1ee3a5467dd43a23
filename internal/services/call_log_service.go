package services

import (
	"context"
	"time"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
)

type CallLogService struct {
	Repo *repositories.CallLogRepository
}

func NewCallLogService(repo *repositories.CallLogRepository) *CallLogService {
	return &CallLogService{Repo: repo}
}

func (s *CallLogService) LogCall(ctx context.Context, req *models.CreateCallLogRequest) (*models.CallLog, error) {
	calledAt := time.Now()
	if req.CalledAt != nil {
		calledAt = *req.CalledAt
	}
	outcome := req.Outcome
	if outcome == "" {
		outcome = "connected"
	}

	cl := &models.CallLog{
		DealID:     req.DealID,
		ClientName: req.ClientName,
		Summary:    req.Summary,
		Outcome:    outcome,
		LoggedBy:   req.LoggedBy,
		CalledAt:   calledAt,
	}
	if err := s.Repo.Create(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *CallLogService) ListByDeal(ctx context.Context, dealID int) ([]*models.CallLog, error) {
	return s.Repo.ListByDeal(ctx, dealID)
}

func (s *CallLogService) ListRecent(ctx context.Context) ([]*models.CallLog, error) {
	return s.Repo.List(ctx)
}
