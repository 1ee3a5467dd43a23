package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/internal/slack"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// panicDealStore fails the test if any method is reached. Used to prove
// that malformed requests are rejected before the store is touched.
type panicDealStore struct{ t *testing.T }

func (s panicDealStore) List(ctx context.Context) ([]*models.Deal, error) {
	s.t.Fatal("store accessed")
	return nil, nil
}
func (s panicDealStore) Get(ctx context.Context, id int) (*models.Deal, error) {
	s.t.Fatal("store accessed")
	return nil, nil
}
func (s panicDealStore) Create(ctx context.Context, deal *models.Deal) error {
	s.t.Fatal("store accessed")
	return nil
}
func (s panicDealStore) UpdateWithStatus(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.Deal, models.DealStatus, error) {
	s.t.Fatal("store accessed")
	return nil, "", nil
}
func (s panicDealStore) Delete(ctx context.Context, id int) error {
	s.t.Fatal("store accessed")
	return nil
}

// stubDealStore returns fixed results for the happy and not-found paths.
type stubDealStore struct {
	deal *models.Deal
	old  models.DealStatus
	err  error
}

func (s *stubDealStore) List(ctx context.Context) ([]*models.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Deal{s.deal}, nil
}
func (s *stubDealStore) Get(ctx context.Context, id int) (*models.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.deal, nil
}
func (s *stubDealStore) Create(ctx context.Context, deal *models.Deal) error {
	deal.ID = 1
	return s.err
}
func (s *stubDealStore) UpdateWithStatus(ctx context.Context, id int, req *models.UpdateDealRequest) (*models.Deal, models.DealStatus, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	if req.Status != nil {
		s.deal.Status = *req.Status
	}
	return s.deal, s.old, nil
}
func (s *stubDealStore) Delete(ctx context.Context, id int) error { return s.err }

type noopProjects struct{}

func (noopProjects) CreateForDeal(ctx context.Context, p *models.Project) error {
	p.ID = 1
	return nil
}

func newDealRouter(store services.DealStore) *mux.Router {
	svc := services.NewDealService(store, noopProjects{},
		services.NewNotificationService(slack.NewMockService()))
	h := NewDealHandler(svc)

	r := mux.NewRouter()
	r.HandleFunc("/api/deals", h.ListDeals).Methods("GET")
	r.HandleFunc("/api/deals", h.CreateDeal).Methods("POST")
	r.HandleFunc("/api/deals/{id}", h.GetDeal).Methods("GET")
	r.HandleFunc("/api/deals/{id}", h.UpdateDeal).Methods("PUT", "PATCH")
	r.HandleFunc("/api/deals/{id}", h.DeleteDeal).Methods("DELETE")
	return r
}

func TestUpdateDealInvalidIDRejectedBeforeStore(t *testing.T) {
	router := newDealRouter(panicDealStore{t: t})

	for _, id := range []string{"abc", "-1", "0", "1.5"} {
		req := httptest.NewRequest(http.MethodPatch, "/api/deals/"+id,
			strings.NewReader(`{"status": "won"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "Invalid deal id")
	}
}

func TestUpdateDealMalformedBody(t *testing.T) {
	router := newDealRouter(panicDealStore{t: t})

	req := httptest.NewRequest(http.MethodPut, "/api/deals/1", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDealNotFound(t *testing.T) {
	router := newDealRouter(&stubDealStore{err: repositories.ErrDealNotFound})

	req := httptest.NewRequest(http.MethodPatch, "/api/deals/42",
		strings.NewReader(`{"status": "qualified"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDealInvalidStatusReturns400(t *testing.T) {
	router := newDealRouter(&stubDealStore{})

	req := httptest.NewRequest(http.MethodPatch, "/api/deals/1",
		strings.NewReader(`{"status": "closed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateDealWonReturnsProjectMetadata(t *testing.T) {
	store := &stubDealStore{
		deal: &models.Deal{
			ID:         1,
			ClientName: "Acme Corp",
			EventTitle: "AI Summit",
			DealValue:  10000,
			Status:     models.DealStatusNegotiation,
		},
		old: models.DealStatusNegotiation,
	}
	router := newDealRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/api/deals/1",
		strings.NewReader(`{"status": "won"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.DealUpdateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.ProjectCreated)
	require.NotNil(t, result.ProjectID)
	assert.Equal(t, 1, *result.ProjectID)
	assert.Equal(t, models.DealStatusWon, result.Deal.Status)
}

func TestListDeals(t *testing.T) {
	store := &stubDealStore{deal: &models.Deal{ID: 1, ClientName: "Acme Corp"}}
	router := newDealRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/deals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var deals []models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deals))
	require.Len(t, deals, 1)
}

func TestCreateDealReturns201(t *testing.T) {
	router := newDealRouter(&stubDealStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/deals",
		strings.NewReader(`{"client_name": "Acme Corp", "event_title": "Panel"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var deal models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Equal(t, models.DealStatusLead, deal.Status)
}

func TestDeleteDealReturns204(t *testing.T) {
	router := newDealRouter(&stubDealStore{})

	req := httptest.NewRequest(http.MethodDelete, "/api/deals/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
