package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DealHandler struct {
	Service *services.DealService
}

func NewDealHandler(s *services.DealService) *DealHandler {
	return &DealHandler{Service: s}
}

func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := h.Service.ListDeals(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, deals)
}

func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}

	deal, err := h.Service.GetDeal(r.Context(), id)
	if err != nil {
		writeDealError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, deal)
}

func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deal, err := h.Service.CreateDeal(r.Context(), &req)
	if err != nil {
		writeDealError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, deal)
}

// UpdateDeal handles both PUT and PATCH. Status transitions run through the
// deal service, so a move into won fans out to project creation here.
func (h *DealHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}

	var req models.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.UpdateDeal(r.Context(), id, &req)
	if err != nil {
		writeDealError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, ok := dealID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteDeal(r.Context(), id); err != nil {
		writeDealError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dealID parses the path id and rejects malformed values before any
// store access happens.
func dealID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid deal id")
		return 0, false
	}
	return id, true
}

func writeDealError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrDealNotFound):
		utils.Error(w, http.StatusNotFound, "Deal not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
