package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bureau-backend/internal/models"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"
)

type AssistantHandler struct {
	Service *services.AssistantService
}

func NewAssistantHandler(s *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: s}
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		utils.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.Service.Chat(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrToolLoopExceeded) {
			utils.Error(w, http.StatusBadGateway,
				"The assistant could not finish within the allowed number of tool calls")
			return
		}
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, models.AssistantResponse{Response: reply})
}
