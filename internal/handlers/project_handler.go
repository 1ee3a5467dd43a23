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

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(s *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: s}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListProjects(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := h.Service.GetProject(r.Context(), id)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.Service.CreateProject(r.Context(), &req)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), id, &req)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status models.ProjectStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	project, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeProjectError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteProject(r.Context(), id); err != nil {
		writeProjectError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func projectID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid project id")
		return 0, false
	}
	return id, true
}

func writeProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrProjectNotFound):
		utils.Error(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
