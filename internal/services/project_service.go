package services

import (
	"context"
	"fmt"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
)

type ProjectService struct {
	Repo *repositories.ProjectRepository
}

func NewProjectService(repo *repositories.ProjectRepository) *ProjectService {
	return &ProjectService{Repo: repo}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.Repo.List(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, id int) (*models.Project, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ProjectService) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	status := req.Status
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	commissionPct := req.CommissionPercentage
	if commissionPct == 0 {
		commissionPct = models.DefaultCommissionPercentage
	}
	commissionAmount, speakerFee := models.DeriveFinancials(req.Budget, commissionPct)
	if req.CommissionAmount != 0 {
		commissionAmount = req.CommissionAmount
	}
	if req.SpeakerFee != 0 {
		speakerFee = req.SpeakerFee
	}

	project := &models.Project{
		DealID:               req.DealID,
		ProjectName:          req.ProjectName,
		ClientName:           req.ClientName,
		ClientEmail:          req.ClientEmail,
		ClientPhone:          req.ClientPhone,
		Company:              req.Company,
		ProjectType:          req.ProjectType,
		Description:          req.Description,
		Status:               status,
		Priority:             req.Priority,
		StartDate:            req.StartDate,
		Deadline:             req.Deadline,
		Budget:               req.Budget,
		SpeakerName:          req.SpeakerName,
		SpeakerFee:           speakerFee,
		CommissionPercentage: commissionPct,
		CommissionAmount:     commissionAmount,
		Tags:                 req.Tags,
	}
	if err := s.Repo.CreateForDeal(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id int, req *models.UpdateProjectRequest) (*models.Project, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
	}
	return s.Repo.Update(ctx, id, req)
}

func (s *ProjectService) UpdateStatus(ctx context.Context, id int, status models.ProjectStatus) (*models.Project, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}
