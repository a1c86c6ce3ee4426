package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps coded application errors to HTTP statuses. Uncoded errors
// are logged and surfaced as a bare 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrCode(err)
	if code == "" {
		logger.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "internal error"})
		return
	}

	status := http.StatusBadRequest
	switch code {
	case domain.CodeOrderNotFound, domain.CodeReturnNotFound,
		domain.CodeInventoryNotFound, domain.CodeCartNotFound:
		status = http.StatusNotFound
	case domain.CodeNotAvailable, domain.CodeInvalidTransition, domain.CodeInvalidStatus:
		status = http.StatusConflict
	}

	message := err.Error()
	if e, ok := err.(*domain.Error); ok {
		message = e.Message
	}
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// userID reads the authenticated user identity injected by the gateway.
func userID(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// actor resolves the audit actor label for staff endpoints.
func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	if id, ok := userID(r); ok {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "unknown"
}
