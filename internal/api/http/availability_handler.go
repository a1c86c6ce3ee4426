package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/service"
	"dressrental-backend/internal/utils"
)

// AvailabilityHandler exposes availability checks and the booking calendar
type AvailabilityHandler struct {
	availability service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availability service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

func variantFromQuery(r *http.Request) domain.VariantKey {
	return domain.VariantKey{
		Size:  r.URL.Query().Get("size"),
		Color: r.URL.Query().Get("color"),
	}
}

// HandleCheck answers whether a quantity of a variant is rentable over a window
func (h *AvailabilityHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["product_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid product id"})
		return
	}

	q := r.URL.Query()
	start, err := utils.ParseDate(q.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid start date"})
		return
	}
	end, err := utils.ParseDate(q.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid end date"})
		return
	}
	quantity := 1
	if raw := q.Get("quantity"); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil || quantity < 1 {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid quantity"})
			return
		}
	}

	result, err := h.availability.CheckAvailability(r.Context(), productID, variantFromQuery(r), start, end, quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCalendar returns per-day availability for a month
func (h *AvailabilityHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["product_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid product id"})
		return
	}

	q := r.URL.Query()
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if raw := q.Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid year"})
			return
		}
	}
	if raw := q.Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid month"})
			return
		}
	}

	days, err := h.availability.MonthCalendar(r.Context(), productID, variantFromQuery(r), year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

// RegisterAvailabilityRoutes registers the availability endpoints
func RegisterAvailabilityRoutes(router *mux.Router, availability service.AvailabilityService) {
	handler := NewAvailabilityHandler(availability)
	router.HandleFunc("/api/v1/products/{product_id}/availability", handler.HandleCheck).Methods("GET")
	router.HandleFunc("/api/v1/products/{product_id}/calendar", handler.HandleCalendar).Methods("GET")
}
