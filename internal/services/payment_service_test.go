package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signHMAC(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func TestPaymentServiceConfigured(t *testing.T) {
	assert.False(t, NewPaymentService("", "", "", nil).Configured())
	assert.False(t, NewPaymentService("key-id", "", "", nil).Configured())
	assert.True(t, NewPaymentService("key-id", "key-secret", "", nil).Configured())
}

func TestCreateOrderUnconfigured(t *testing.T) {
	svc := NewPaymentService("", "", "", nil)

	_, err := svc.CreateOrder(context.Background(), 1)
	assert.EqualError(t, err, "payment gateway not configured")
}

func TestVerifyAndMarkPaidRejectsBadSignature(t *testing.T) {
	// nil repository: the signature check must fail before any lookup.
	svc := NewPaymentService("", "key-secret", "", nil)

	_, err := svc.VerifyAndMarkPaid(context.Background(), &VerifyPaymentRequest{
		InvoiceID:         1,
		RazorpayOrderID:   "order_123",
		RazorpayPaymentID: "pay_456",
		RazorpaySignature: "deadbeef",
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyAndMarkPaidRejectsSignatureForOtherOrder(t *testing.T) {
	svc := NewPaymentService("", "key-secret", "", nil)

	// Valid signature, but over a different order|payment pair.
	_, err := svc.VerifyAndMarkPaid(context.Background(), &VerifyPaymentRequest{
		InvoiceID:         1,
		RazorpayOrderID:   "order_123",
		RazorpayPaymentID: "pay_456",
		RazorpaySignature: signHMAC("key-secret", "order_999|pay_456"),
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := NewPaymentService("", "key-secret", "webhook-secret", nil)
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	assert.True(t, svc.VerifyWebhookSignature(body, signHMAC("webhook-secret", string(body))))
	assert.False(t, svc.VerifyWebhookSignature(body, signHMAC("wrong-secret", string(body))))
	assert.False(t, svc.VerifyWebhookSignature(body, ""))
}
