package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"bureau-backend/internal/repositories"
	"bureau-backend/internal/services"
	"bureau-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// CreateOrder creates a payment order for an invoice.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.Service.Configured() {
		utils.Error(w, http.StatusServiceUnavailable, "Payment gateway not configured")
		return
	}

	invoiceID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || invoiceID <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	order, err := h.Service.CreateOrder(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvoiceNotFound) {
			utils.Error(w, http.StatusNotFound, "Invoice not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

// VerifyPayment verifies a checkout callback signature and marks the
// invoice paid.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invoice, err := h.Service.VerifyAndMarkPaid(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			utils.Error(w, http.StatusBadRequest, "Invalid payment signature")
		case errors.Is(err, repositories.ErrInvoiceNotFound):
			utils.Error(w, http.StatusNotFound, "Invoice not found")
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

// Webhook receives gateway webhook events. Signature failures are
// rejected; unrecognized events are acknowledged and ignored.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Service.VerifyWebhookSignature(body, signature) {
		utils.Error(w, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	var event struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	log.Printf("[Payment] Webhook received: %s", event.Event)
	w.WriteHeader(http.StatusOK)
}
