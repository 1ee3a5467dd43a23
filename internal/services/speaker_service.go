package services

import (
	"context"

	"bureau-backend/internal/cache"
	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
)

// SpeakerService manages the speaker roster. The full active roster is
// read-heavy (every proposal page and assistant lookup hits it), so it is
// cached in Redis and invalidated on mutation.
type SpeakerService struct {
	Repo  *repositories.SpeakerRepository
	cache *cache.Cache
}

func NewSpeakerService(repo *repositories.SpeakerRepository, c *cache.Cache) *SpeakerService {
	return &SpeakerService{Repo: repo, cache: c}
}

func (s *SpeakerService) ListSpeakers(ctx context.Context) ([]*models.Speaker, error) {
	var cached []*models.Speaker
	if s.cache.GetSpeakers(ctx, &cached) {
		return cached, nil
	}

	speakers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetSpeakers(ctx, speakers)
	return speakers, nil
}

func (s *SpeakerService) SearchSpeakers(ctx context.Context, term string) ([]*models.Speaker, error) {
	if term == "" {
		return s.ListSpeakers(ctx)
	}
	return s.Repo.Search(ctx, term)
}

func (s *SpeakerService) GetSpeaker(ctx context.Context, id int) (*models.Speaker, error) {
	return s.Repo.Get(ctx, id)
}

func (s *SpeakerService) CreateSpeaker(ctx context.Context, req *models.CreateSpeakerRequest) (*models.Speaker, error) {
	speaker := &models.Speaker{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Topics:   req.Topics,
		FeeRange: req.FeeRange,
		Location: req.Location,
		Website:  req.Website,
	}
	if err := s.Repo.Create(ctx, speaker); err != nil {
		return nil, err
	}
	s.cache.InvalidateSpeakers(ctx)
	return speaker, nil
}

func (s *SpeakerService) UpdateSpeaker(ctx context.Context, id int, req *models.UpdateSpeakerRequest) (*models.Speaker, error) {
	speaker, err := s.Repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateSpeakers(ctx)
	return speaker, nil
}

func (s *SpeakerService) DeleteSpeaker(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateSpeakers(ctx)
	return nil
}
