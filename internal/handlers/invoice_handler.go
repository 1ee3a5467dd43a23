package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

func NewInvoiceHandler(s *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	if projectStr := r.URL.Query().Get("project_id"); projectStr != "" {
		projectID, err := strconv.Atoi(projectStr)
		if err != nil || projectID <= 0 {
			utils.Error(w, http.StatusBadRequest, "Invalid project_id")
			return
		}
		invoices, err := h.Service.ListByProject(r.Context(), projectID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, invoices)
		return
	}

	invoices, err := h.Service.ListInvoices(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), &req)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

// DownloadPDF streams the rendered invoice PDF.
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.GetInvoice(r.Context(), id)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}

	data, err := h.Service.RenderPDF(r.Context(), id)
	if err != nil {
		writeInvoiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.pdf"`, invoice.InvoiceNumber))
	w.Write(data)
}

func invoiceID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return 0, false
	}
	return id, true
}

func writeInvoiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrInvoiceNotFound):
		utils.Error(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, repositories.ErrProjectNotFound):
		utils.Error(w, http.StatusNotFound, "Project not found")
	case errors.Is(err, services.ErrInvalidStatus):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
