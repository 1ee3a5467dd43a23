package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Signup handles user registration
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		utils.Error(w, http.StatusBadRequest, "name, email and a password of at least 8 characters are required")
		return
	}

	authResp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			utils.Error(w, http.StatusConflict, "Email already registered")
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, authResp)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrTOTPRequired) {
			// Client should re-submit with totp_code set.
			utils.JSON(w, http.StatusUnauthorized, map[string]interface{}{
				"error":         "totp code required",
				"totp_required": true,
			})
			return
		}
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	utils.JSON(w, http.StatusOK, authResp)
}
