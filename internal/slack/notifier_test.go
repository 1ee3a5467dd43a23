package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookServiceSend(t *testing.T) {
	var received Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := NewWebhookService(srv.URL)
	err := svc.Send(context.Background(), Message{Text: "Deal #1 won"})

	require.NoError(t, err)
	assert.Equal(t, "Deal #1 won", received.Text)
}

func TestWebhookServiceSendNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewWebhookService(srv.URL)
	err := svc.Send(context.Background(), Message{Text: "hello"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestWebhookServiceSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Immediately closed so the dial fails.

	svc := NewWebhookService(srv.URL)
	err := svc.Send(context.Background(), Message{Text: "hello"})

	assert.Error(t, err)
}

func TestMockServiceNeverFails(t *testing.T) {
	svc := NewMockService()
	assert.NoError(t, svc.Send(context.Background(), Message{Text: "anything"}))
}
