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

type SpeakerHandler struct {
	Service *services.SpeakerService
}

func NewSpeakerHandler(s *services.SpeakerService) *SpeakerHandler {
	return &SpeakerHandler{Service: s}
}

// ListSpeakers returns the active roster, optionally filtered with ?q=.
func (h *SpeakerHandler) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	var (
		speakers []*models.Speaker
		err      error
	)
	if term != "" {
		speakers, err = h.Service.SearchSpeakers(r.Context(), term)
	} else {
		speakers, err = h.Service.ListSpeakers(r.Context())
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, speakers)
}

func (h *SpeakerHandler) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := speakerID(w, r)
	if !ok {
		return
	}

	speaker, err := h.Service.GetSpeaker(r.Context(), id)
	if err != nil {
		writeSpeakerError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, speaker)
}

func (h *SpeakerHandler) CreateSpeaker(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSpeakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	speaker, err := h.Service.CreateSpeaker(r.Context(), &req)
	if err != nil {
		writeSpeakerError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, speaker)
}

func (h *SpeakerHandler) UpdateSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := speakerID(w, r)
	if !ok {
		return
	}

	var req models.UpdateSpeakerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	speaker, err := h.Service.UpdateSpeaker(r.Context(), id, &req)
	if err != nil {
		writeSpeakerError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, speaker)
}

func (h *SpeakerHandler) DeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	id, ok := speakerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteSpeaker(r.Context(), id); err != nil {
		writeSpeakerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func speakerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid speaker id")
		return 0, false
	}
	return id, true
}

func writeSpeakerError(w http.ResponseWriter, err error) {
	if errors.Is(err, repositories.ErrSpeakerNotFound) {
		utils.Error(w, http.StatusNotFound, "Speaker not found")
		return
	}
	utils.Error(w, http.StatusInternalServerError, err.Error())
}
