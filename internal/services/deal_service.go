package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bureau-backend/internal/metrics"
	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/slack"
)

// ErrInvalidStatus is returned when a caller supplies a status outside the
// canonical set for the record being updated.
var ErrInvalidStatus = errors.New("invalid status")

// DealStore is the slice of the deal repository the engine depends on.
type DealStore interface {
	List(ctx context.Context) ([]*models.Deal, error)
	Get(ctx context.Context, id int) (*models.Deal, error)
	Create(ctx context.Context, deal *models.Deal) error
	UpdateWithStatus(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.Deal, models.DealStatus, error)
	Delete(ctx context.Context, id int) error
}

// ProjectCreator is the single project-derivation entry point.
type ProjectCreator interface {
	CreateForDeal(ctx context.Context, p *models.Project) error
}

// EventSink receives pipeline events for the live ops feed. Optional.
type EventSink interface {
	Publish(eventType string, payload interface{})
}

// DealService is the single authority for deal transitions. Both the REST
// handlers and the assistant's tools route status changes through here, so
// the won-entry side effects fire exactly once regardless of entry point.
type DealService struct {
	deals    DealStore
	projects ProjectCreator
	notify   *NotificationService
	events   EventSink
}

func NewDealService(deals DealStore, projects ProjectCreator, notify *NotificationService) *DealService {
	return &DealService{deals: deals, projects: projects, notify: notify}
}

// SetEventSink wires the ops feed after construction.
func (s *DealService) SetEventSink(events EventSink) {
	s.events = events
}

func (s *DealService) ListDeals(ctx context.Context) ([]*models.Deal, error) {
	return s.deals.List(ctx)
}

func (s *DealService) GetDeal(ctx context.Context, id int) (*models.Deal, error) {
	return s.deals.Get(ctx, id)
}

func (s *DealService) CreateDeal(ctx context.Context, req *models.CreateDealRequest) (*models.Deal, error) {
	status := req.Status
	if status == "" {
		status = models.DealStatusLead
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	deal := &models.Deal{
		ClientName:       req.ClientName,
		ClientEmail:      req.ClientEmail,
		ClientPhone:      req.ClientPhone,
		Company:          req.Company,
		EventTitle:       req.EventTitle,
		EventDate:        req.EventDate,
		EventLocation:    req.EventLocation,
		EventType:        req.EventType,
		AttendeeCount:    req.AttendeeCount,
		BudgetRange:      req.BudgetRange,
		DealValue:        req.DealValue,
		Status:           status,
		Priority:         priority,
		Source:           req.Source,
		Notes:            req.Notes,
		SpeakerRequested: req.SpeakerRequested,
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *DealService) DeleteDeal(ctx context.Context, id int) error {
	return s.deals.Delete(ctx, id)
}

// UpdateStatus is the convenience path used by the assistant tools.
func (s *DealService) UpdateStatus(ctx context.Context, id int, status models.DealStatus) (*models.DealUpdateResult, error) {
	return s.UpdateDeal(ctx, id, &models.UpdateDealRequest{Status: &status})
}

// UpdateDeal applies a partial update and runs the transition side effects:
//
//  1. The update itself is atomic; concurrent updates to the same deal are
//     serialized by a row lock, so the old-status comparison cannot race.
//  2. A status change dispatches a notification, best effort.
//  3. Entering won for the first time derives exactly one project. A failed
//     derivation never rolls back the deal update; it is logged, counted and
//     reported in the result so callers can see it.
func (s *DealService) UpdateDeal(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.DealUpdateResult, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
	}

	deal, oldStatus, err := s.deals.UpdateWithStatus(ctx, id, req)
	if err != nil {
		return nil, err
	}

	result := &models.DealUpdateResult{Deal: deal}

	if deal.Status == oldStatus {
		return result, nil
	}

	if models.IsWonEntry(oldStatus, deal.Status) {
		s.notify.DealWon(ctx, slack.WonDealInfo{
			DealID:      deal.ID,
			EventTitle:  deal.EventTitle,
			ClientName:  deal.ClientName,
			Company:     deal.Company,
			DealValue:   deal.DealValue,
			SpeakerName: deal.SpeakerName,
			EventDate:   deal.EventDate,
		})
		s.deriveProject(ctx, deal, req, result)
	} else {
		s.notify.DealStatusChanged(ctx, slack.StatusUpdateInfo{
			DealID:     deal.ID,
			EventTitle: deal.EventTitle,
			ClientName: deal.ClientName,
			OldStatus:  oldStatus,
			NewStatus:  deal.Status,
			DealValue:  deal.DealValue,
		})
	}

	s.publish("deal.status_changed", deal)
	return result, nil
}

// deriveProject builds and persists the project for a freshly won deal.
// Failures are recovered here: the deal update is the transaction of record.
func (s *DealService) deriveProject(ctx context.Context, deal *models.Deal, req *models.UpdateDealRequest, result *models.DealUpdateResult) {
	project := buildProjectFromDeal(deal, req)

	err := s.projects.CreateForDeal(ctx, project)
	switch {
	case err == nil:
		metrics.ProjectsCreatedTotal.Inc()
		result.ProjectCreated = true
		result.ProjectID = &project.ID
		result.Message = "Deal won, project created"
		s.publish("project.created", project)
	case errors.Is(err, repositories.ErrDuplicateProject):
		// Re-won after a lost detour, or a concurrent retry lost the race.
		// The invariant holds: at most one project per deal.
		log.Printf("[Deals] Project already exists for deal %d, skipping derivation", deal.ID)
	default:
		metrics.ProjectCreationFailuresTotal.Inc()
		result.ProjectCreationError = err.Error()
		log.Printf("[Deals] Project creation failed for deal %d (deal update kept): %v", deal.ID, err)
	}
}

// buildProjectFromDeal maps deal fields into the project payload, computing
// the commission split unless the caller supplied explicit overrides.
func buildProjectFromDeal(deal *models.Deal, req *models.UpdateDealRequest) *models.Project {
	commissionPct := models.DefaultCommissionPercentage
	if req.CommissionPercentage != nil {
		commissionPct = *req.CommissionPercentage
	}
	commissionAmount, speakerFee := models.DeriveFinancials(deal.DealValue, commissionPct)
	if req.CommissionAmount != nil {
		commissionAmount = *req.CommissionAmount
	}
	if req.SpeakerFee != nil {
		speakerFee = *req.SpeakerFee
	}

	projectName := deal.EventTitle
	if projectName == "" {
		projectName = fmt.Sprintf("Engagement for %s", deal.ClientName)
	}

	return &models.Project{
		DealID:               &deal.ID,
		ProjectName:          projectName,
		ClientName:           deal.ClientName,
		ClientEmail:          deal.ClientEmail,
		ClientPhone:          deal.ClientPhone,
		Company:              deal.Company,
		ProjectType:          deal.EventType,
		Description:          deal.Notes,
		Status:               models.ProjectStatusInvoicing,
		Priority:             deal.Priority,
		Budget:               deal.DealValue,
		EventDate:            deal.EventDate,
		EventLocation:        deal.EventLocation,
		EventType:            deal.EventType,
		SpeakerName:          deal.SpeakerName,
		SpeakerFee:           speakerFee,
		CommissionPercentage: commissionPct,
		CommissionAmount:     commissionAmount,
	}
}

func (s *DealService) publish(eventType string, payload interface{}) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
