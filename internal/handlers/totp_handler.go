package handlers

import (
	"encoding/json"
	"net/http"

	"bureau-backend/internal/middleware"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"
)

type TOTPHandler struct {
	Service *services.TOTPService
}

func NewTOTPHandler(s *services.TOTPService) *TOTPHandler {
	return &TOTPHandler{Service: s}
}

// Setup initiates 2FA enrollment and returns the otpauth:// URL for the
// authenticator app.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	email, _ := middleware.GetEmailFromContext(r.Context())

	url, err := h.Service.Setup(r.Context(), userID, email)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate 2FA setup")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"otpauth_url": url})
}

// Confirm verifies the first code from the authenticator and enables 2FA.
func (h *TOTPHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Code == "" {
		utils.Error(w, http.StatusBadRequest, "Verification code is required")
		return
	}

	if err := h.Service.Confirm(r.Context(), userID, req.Code); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid verification code")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": true})
}
