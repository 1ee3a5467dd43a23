package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bureau-backend/internal/models"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"
)

type CallLogHandler struct {
	Service *services.CallLogService
}

func NewCallLogHandler(s *services.CallLogService) *CallLogHandler {
	return &CallLogHandler{Service: s}
}

func (h *CallLogHandler) LogCall(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCallLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ClientName == "" || req.Summary == "" {
		utils.Error(w, http.StatusBadRequest, "client_name and summary are required")
		return
	}

	cl, err := h.Service.LogCall(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, cl)
}

// ListCalls returns recent calls, or a deal's calls with ?deal_id=.
func (h *CallLogHandler) ListCalls(w http.ResponseWriter, r *http.Request) {
	if dealStr := r.URL.Query().Get("deal_id"); dealStr != "" {
		dealID, err := strconv.Atoi(dealStr)
		if err != nil || dealID <= 0 {
			utils.Error(w, http.StatusBadRequest, "Invalid deal_id")
			return
		}
		calls, err := h.Service.ListByDeal(r.Context(), dealID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, calls)
		return
	}

	calls, err := h.Service.ListRecent(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, calls)
}
