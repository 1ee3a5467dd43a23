package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bureau-backend/internal/handlers"
	"bureau-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	dealHandler *handlers.DealHandler,
	projectHandler *handlers.ProjectHandler,
	speakerHandler *handlers.SpeakerHandler,
	invoiceHandler *handlers.InvoiceHandler,
	paymentHandler *handlers.PaymentHandler,
	callLogHandler *handlers.CallLogHandler,
	assistantHandler *handlers.AssistantHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Payment gateway webhook authenticates with its own HMAC signature
	r.HandleFunc("/webhooks/razorpay", paymentHandler.Webhook).Methods("POST")

	// Protected API routes - 2FA enrollment
	totpAPI := r.PathPrefix("/api/totp").Subrouter()
	totpAPI.Use(authMiddleware.Authenticate)
	totpAPI.HandleFunc("/setup", totpHandler.Setup).Methods("POST")
	totpAPI.HandleFunc("/confirm", totpHandler.Confirm).Methods("POST")

	// Protected API routes - Deals
	dealsAPI := r.PathPrefix("/api/deals").Subrouter()
	dealsAPI.Use(authMiddleware.Authenticate)
	dealsAPI.HandleFunc("", dealHandler.ListDeals).Methods("GET")
	dealsAPI.HandleFunc("", dealHandler.CreateDeal).Methods("POST")
	dealsAPI.HandleFunc("/{id}", dealHandler.GetDeal).Methods("GET")
	dealsAPI.HandleFunc("/{id}", dealHandler.UpdateDeal).Methods("PUT", "PATCH")
	dealsAPI.HandleFunc("/{id}", dealHandler.DeleteDeal).Methods("DELETE")

	// Protected API routes - Projects
	projectsAPI := r.PathPrefix("/api/projects").Subrouter()
	projectsAPI.Use(authMiddleware.Authenticate)
	projectsAPI.HandleFunc("", projectHandler.ListProjects).Methods("GET")
	projectsAPI.HandleFunc("", projectHandler.CreateProject).Methods("POST")
	projectsAPI.HandleFunc("/{id}", projectHandler.GetProject).Methods("GET")
	projectsAPI.HandleFunc("/{id}", projectHandler.UpdateProject).Methods("PUT", "PATCH")
	projectsAPI.HandleFunc("/{id}/status", projectHandler.UpdateStatus).Methods("PATCH")
	projectsAPI.HandleFunc("/{id}", projectHandler.DeleteProject).Methods("DELETE")

	// Protected API routes - Speakers
	speakersAPI := r.PathPrefix("/api/speakers").Subrouter()
	speakersAPI.Use(authMiddleware.Authenticate)
	speakersAPI.HandleFunc("", speakerHandler.ListSpeakers).Methods("GET")
	speakersAPI.HandleFunc("", speakerHandler.CreateSpeaker).Methods("POST")
	speakersAPI.HandleFunc("/{id}", speakerHandler.GetSpeaker).Methods("GET")
	speakersAPI.HandleFunc("/{id}", speakerHandler.UpdateSpeaker).Methods("PUT")
	speakersAPI.HandleFunc("/{id}", speakerHandler.DeleteSpeaker).Methods("DELETE")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.ListInvoices).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.CreateInvoice).Methods("POST")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.GetInvoice).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/status", invoiceHandler.UpdateStatus).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/order", paymentHandler.CreateOrder).Methods("POST")

	// Protected API routes - Payment verification
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/verify", paymentHandler.VerifyPayment).Methods("POST")

	// Protected API routes - Call logs
	callsAPI := r.PathPrefix("/api/calls").Subrouter()
	callsAPI.Use(authMiddleware.Authenticate)
	callsAPI.HandleFunc("", callLogHandler.ListCalls).Methods("GET")
	callsAPI.HandleFunc("", callLogHandler.LogCall).Methods("POST")

	// Protected API routes - Assistant
	assistantAPI := r.PathPrefix("/api/assistant").Subrouter()
	assistantAPI.Use(authMiddleware.Authenticate)
	assistantAPI.HandleFunc("", assistantHandler.Chat).Methods("POST")

	return r
}
