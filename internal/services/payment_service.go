package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"bureau-backend/internal/models"
	"bureau-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

var ErrInvalidSignature = errors.New("invalid payment signature")

// PaymentService creates payment orders for invoices and marks them paid
// once the gateway confirms the capture.
type PaymentService struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
	invoices      *repositories.InvoiceRepository
}

func NewPaymentService(keyID, keySecret, webhookSecret string, invoices *repositories.InvoiceRepository) *PaymentService {
	var client *razorpay.Client
	if keyID != "" && keySecret != "" {
		client = razorpay.NewClient(keyID, keySecret)
	}
	return &PaymentService{
		client:        client,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		invoices:      invoices,
	}
}

// Configured reports whether gateway credentials were provided.
func (s *PaymentService) Configured() bool {
	return s.client != nil
}

// CreateOrderResponse is returned to the checkout front end.
type CreateOrderResponse struct {
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	InvoiceNumber string  `json:"invoice_number"`
}

// CreateOrder opens a gateway order for an unpaid invoice. Amounts are sent
// in the smallest currency unit.
func (s *PaymentService) CreateOrder(ctx context.Context, invoiceID int) (*CreateOrderResponse, error) {
	if !s.Configured() {
		return nil, errors.New("payment gateway not configured")
	}

	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvoiceStatusPaid {
		return nil, fmt.Errorf("invoice %s is already paid", inv.InvoiceNumber)
	}

	orderData := map[string]interface{}{
		"amount":   int64(inv.Amount * 100),
		"currency": inv.Currency,
		"receipt":  inv.InvoiceNumber,
		"notes": map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
		},
	}
	order, err := s.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	orderID, _ := order["id"].(string)
	return &CreateOrderResponse{
		OrderID:       orderID,
		Amount:        inv.Amount,
		Currency:      inv.Currency,
		InvoiceNumber: inv.InvoiceNumber,
	}, nil
}

// VerifyPaymentRequest is the checkout callback payload.
type VerifyPaymentRequest struct {
	InvoiceID         int    `json:"invoice_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// VerifyAndMarkPaid checks the checkout signature and marks the invoice paid.
func (s *PaymentService) VerifyAndMarkPaid(ctx context.Context, req *VerifyPaymentRequest) (*models.Invoice, error) {
	payload := req.RazorpayOrderID + "|" + req.RazorpayPaymentID
	if !s.verifyHMAC(payload, req.RazorpaySignature, s.keySecret) {
		return nil, ErrInvalidSignature
	}

	inv, err := s.invoices.MarkPaid(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	log.Printf("[Payments] Invoice %s marked paid (payment %s)", inv.InvoiceNumber, req.RazorpayPaymentID)
	return inv, nil
}

// VerifyWebhookSignature validates the gateway webhook body.
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	return s.verifyHMAC(string(body), signature, s.webhookSecret)
}

func (s *PaymentService) verifyHMAC(payload, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
