package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/slack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDealStore applies updates under a lock, mirroring the row-lock
// serialization the real repository gets from the database.
type fakeDealStore struct {
	mu     sync.Mutex
	nextID int
	deals  map[int]*models.Deal
}

func newFakeDealStore() *fakeDealStore {
	return &fakeDealStore{deals: map[int]*models.Deal{}}
}

func (s *fakeDealStore) List(ctx context.Context) ([]*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		copy := *d
		out = append(out, &copy)
	}
	return out, nil
}

func (s *fakeDealStore) Get(ctx context.Context, id int) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return nil, repositories.ErrDealNotFound
	}
	copy := *d
	return &copy, nil
}

func (s *fakeDealStore) Create(ctx context.Context, deal *models.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	deal.ID = s.nextID
	copy := *deal
	s.deals[deal.ID] = &copy
	return nil
}

func (s *fakeDealStore) UpdateWithStatus(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.Deal, models.DealStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deals[id]
	if !ok {
		return nil, "", repositories.ErrDealNotFound
	}
	old := d.Status
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.DealValue != nil {
		d.DealValue = *req.DealValue
	}
	if req.SpeakerName != nil {
		d.SpeakerName = *req.SpeakerName
	}
	copy := *d
	return &copy, old, nil
}

func (s *fakeDealStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return repositories.ErrDealNotFound
	}
	delete(s.deals, id)
	return nil
}

// fakeProjectStore enforces the one-project-per-deal constraint the way the
// database unique index does.
type fakeProjectStore struct {
	mu      sync.Mutex
	nextID  int
	byDeal  map[int]bool
	created []*models.Project
	fail    error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{byDeal: map[int]bool{}}
}

func (s *fakeProjectStore) CreateForDeal(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if p.DealID != nil && s.byDeal[*p.DealID] {
		return repositories.ErrDuplicateProject
	}
	s.nextID++
	p.ID = s.nextID
	if p.DealID != nil {
		s.byDeal[*p.DealID] = true
	}
	copy := *p
	s.created = append(s.created, &copy)
	return nil
}

// recordingNotifier captures sent messages; failingNotifier always errors.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []slack.Message
}

func (n *recordingNotifier) Send(ctx context.Context, msg slack.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) messages() []slack.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]slack.Message(nil), n.sent...)
}

type failingNotifier struct{}

func (failingNotifier) Send(ctx context.Context, msg slack.Message) error {
	return errors.New("webhook unreachable")
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Publish(eventType string, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, eventType)
}

func (s *recordingSink) types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func newTestService() (*DealService, *fakeDealStore, *fakeProjectStore, *recordingNotifier, *recordingSink) {
	deals := newFakeDealStore()
	projects := newFakeProjectStore()
	notifier := &recordingNotifier{}
	sink := &recordingSink{}
	svc := NewDealService(deals, projects, NewNotificationService(notifier))
	svc.SetEventSink(sink)
	return svc, deals, projects, notifier, sink
}

func seedDeal(t *testing.T, svc *DealService, value float64) *models.Deal {
	t.Helper()
	deal, err := svc.CreateDeal(context.Background(), &models.CreateDealRequest{
		ClientName: "Acme Corp",
		EventTitle: "AI Summit Keynote",
		DealValue:  value,
		Status:     models.DealStatusNegotiation,
	})
	require.NoError(t, err)
	return deal
}

func statusPtr(s models.DealStatus) *models.DealStatus { return &s }

func TestCreateDealDefaults(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	deal, err := svc.CreateDeal(context.Background(), &models.CreateDealRequest{
		ClientName: "Acme Corp",
		EventTitle: "Panel",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusLead, deal.Status)
	assert.Equal(t, "medium", deal.Priority)
}

func TestCreateDealInvalidStatus(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.CreateDeal(context.Background(), &models.CreateDealRequest{
		ClientName: "Acme Corp",
		EventTitle: "Panel",
		Status:     "closed",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateDealWonCreatesProject(t *testing.T) {
	svc, _, projects, notifier, sink := newTestService()
	deal := seedDeal(t, svc, 10000)

	result, err := svc.UpdateDeal(context.Background(), deal.ID, &models.UpdateDealRequest{
		Status: statusPtr(models.DealStatusWon),
	})
	require.NoError(t, err)

	assert.True(t, result.ProjectCreated)
	require.NotNil(t, result.ProjectID)
	assert.Equal(t, "Deal won, project created", result.Message)
	assert.Equal(t, models.DealStatusWon, result.Deal.Status)

	require.Len(t, projects.created, 1)
	p := projects.created[0]
	require.NotNil(t, p.DealID)
	assert.Equal(t, deal.ID, *p.DealID)
	assert.Equal(t, "AI Summit Keynote", p.ProjectName)
	assert.Equal(t, models.ProjectStatusInvoicing, p.Status)
	assert.InDelta(t, 2000.0, p.CommissionAmount, 1e-9)
	assert.InDelta(t, 8000.0, p.SpeakerFee, 1e-9)
	assert.InDelta(t, models.DefaultCommissionPercentage, p.CommissionPercentage, 1e-9)

	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "won")

	assert.Contains(t, sink.types(), "project.created")
	assert.Contains(t, sink.types(), "deal.status_changed")
}

func TestUpdateDealWonIsIdempotent(t *testing.T) {
	svc, _, projects, notifier, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	_, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusWon)
	require.NoError(t, err)

	// Second won is a no-op transition: no project, no notification.
	result, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusWon)
	require.NoError(t, err)
	assert.False(t, result.ProjectCreated)
	assert.Len(t, projects.created, 1)
	assert.Len(t, notifier.messages(), 1)
}

func TestUpdateDealRewonAfterLostSkipsDuplicateProject(t *testing.T) {
	svc, _, projects, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	ctx := context.Background()
	_, err := svc.UpdateStatus(ctx, deal.ID, models.DealStatusWon)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, deal.ID, models.DealStatusLost)
	require.NoError(t, err)

	// Won again: the transition fires but the store refuses a second
	// project, and the caller sees a clean result.
	result, err := svc.UpdateStatus(ctx, deal.ID, models.DealStatusWon)
	require.NoError(t, err)
	assert.False(t, result.ProjectCreated)
	assert.Empty(t, result.ProjectCreationError)
	assert.Len(t, projects.created, 1)
}

func TestUpdateDealProjectFailureKeepsDealUpdate(t *testing.T) {
	svc, deals, projects, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)
	projects.fail = errors.New("projects table unavailable")

	result, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusWon)
	require.NoError(t, err)

	assert.False(t, result.ProjectCreated)
	assert.Equal(t, "projects table unavailable", result.ProjectCreationError)

	// The deal transition itself was committed.
	stored, err := deals.Get(context.Background(), deal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusWon, stored.Status)
}

func TestUpdateDealNotificationFailureIsSuppressed(t *testing.T) {
	deals := newFakeDealStore()
	projects := newFakeProjectStore()
	svc := NewDealService(deals, projects, NewNotificationService(failingNotifier{}))
	deal := seedDeal(t, svc, 10000)

	result, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusWon)
	require.NoError(t, err)
	assert.True(t, result.ProjectCreated)
	assert.Len(t, projects.created, 1)
}

func TestUpdateDealInvalidStatusRejected(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	_, err := svc.UpdateDeal(context.Background(), deal.ID, &models.UpdateDealRequest{
		Status: statusPtr("closed"),
	})
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.True(t, strings.Contains(err.Error(), "closed"))
}

func TestUpdateDealNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), 999, models.DealStatusWon)
	assert.ErrorIs(t, err, repositories.ErrDealNotFound)
}

func TestUpdateDealWithoutStatusChangeSendsNothing(t *testing.T) {
	svc, _, projects, notifier, sink := newTestService()
	deal := seedDeal(t, svc, 10000)

	value := 12000.0
	result, err := svc.UpdateDeal(context.Background(), deal.ID, &models.UpdateDealRequest{
		DealValue: &value,
	})
	require.NoError(t, err)

	assert.InDelta(t, 12000.0, result.Deal.DealValue, 1e-9)
	assert.Empty(t, projects.created)
	assert.Empty(t, notifier.messages())
	assert.Empty(t, sink.types())
}

func TestUpdateDealNonWonTransitionNotifiesOnly(t *testing.T) {
	svc, _, projects, notifier, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	_, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusProposal)
	require.NoError(t, err)

	assert.Empty(t, projects.created)
	msgs := notifier.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "moved from")
}

func TestUpdateDealCommissionOverrides(t *testing.T) {
	svc, _, projects, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	pct := 30.0
	_, err := svc.UpdateDeal(context.Background(), deal.ID, &models.UpdateDealRequest{
		Status:               statusPtr(models.DealStatusWon),
		CommissionPercentage: &pct,
	})
	require.NoError(t, err)

	require.Len(t, projects.created, 1)
	p := projects.created[0]
	assert.InDelta(t, 3000.0, p.CommissionAmount, 1e-9)
	assert.InDelta(t, 7000.0, p.SpeakerFee, 1e-9)
	assert.InDelta(t, 30.0, p.CommissionPercentage, 1e-9)
}

func TestUpdateDealExplicitFinancialOverrides(t *testing.T) {
	svc, _, projects, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	commission := 1500.0
	fee := 8500.0
	_, err := svc.UpdateDeal(context.Background(), deal.ID, &models.UpdateDealRequest{
		Status:           statusPtr(models.DealStatusWon),
		CommissionAmount: &commission,
		SpeakerFee:       &fee,
	})
	require.NoError(t, err)

	require.Len(t, projects.created, 1)
	assert.InDelta(t, 1500.0, projects.created[0].CommissionAmount, 1e-9)
	assert.InDelta(t, 8500.0, projects.created[0].SpeakerFee, 1e-9)
}

func TestConcurrentWonTransitionsCreateOneProject(t *testing.T) {
	svc, _, projects, _, _ := newTestService()
	deal := seedDeal(t, svc, 10000)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.UpdateStatus(context.Background(), deal.ID, models.DealStatusWon)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, projects.created, 1)
}
