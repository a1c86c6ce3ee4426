package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
	"dressrental-backend/internal/service"
)

// WebhookHandler receives asynchronous payment gateway callbacks
type WebhookHandler struct {
	payments service.PaymentService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(payments service.PaymentService) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// HandlePaymentOutcome processes one gateway callback. The gateway retries
// on non-2xx, so this endpoint always acknowledges once the payload parses;
// processing failures are logged and resolved out of band.
func (h *WebhookHandler) HandlePaymentOutcome(w http.ResponseWriter, r *http.Request) {
	var outcome domain.PaymentOutcome
	if err := json.NewDecoder(r.Body).Decode(&outcome); err != nil {
		logger.Warn("Malformed payment webhook payload", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if outcome.OrderNumber == "" {
		logger.Warn("Payment webhook missing order number", "result_code", outcome.ResultCode)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.payments.HandleOutcome(r.Context(), outcome); err != nil {
		logger.Error("Failed to process payment outcome",
			"order_number", outcome.OrderNumber,
			"result_code", outcome.ResultCode,
			"error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterWebhookRoutes registers the gateway callback endpoints
func RegisterWebhookRoutes(router *mux.Router, payments service.PaymentService) {
	handler := NewWebhookHandler(payments)
	router.HandleFunc("/api/v1/webhooks/payment", handler.HandlePaymentOutcome).Methods("POST")
}
