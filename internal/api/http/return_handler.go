package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/service"
)

// ReturnHandler exposes the return and inspection workflow
type ReturnHandler struct {
	returns service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returns service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returns: returns}
}

func orderIDVar(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	return id, err == nil
}

// HandleMarkReturned records that the rental came back (staff endpoint)
func (h *ReturnHandler) HandleMarkReturned(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	order, err := h.returns.MarkReturned(r.Context(), orderID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// HandleStartInspection opens the inspection record for a returned order
func (h *ReturnHandler) HandleStartInspection(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	ret, err := h.returns.StartInspection(r.Context(), orderID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

type inspectionItemRequest struct {
	OrderItemIndex int    `json:"order_item_index"`
	ConditionAfter string `json:"condition_after"`
	DamageNotes    string `json:"damage_notes"`
	DamageFee      int64  `json:"damage_fee"`
}

type completeInspectionRequest struct {
	Items []inspectionItemRequest `json:"items"`
	Notes string                  `json:"notes"`
}

// HandleCompleteInspection submits per-item conditions and settles the deposit
func (h *ReturnHandler) HandleCompleteInspection(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	var req completeInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "malformed request body"})
		return
	}

	items := make([]service.InspectionItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.InspectionItem{
			OrderItemIndex: it.OrderItemIndex,
			ConditionAfter: domain.ItemCondition(it.ConditionAfter),
			DamageNotes:    it.DamageNotes,
			DamageFee:      it.DamageFee,
		})
	}

	ret, err := h.returns.CompleteInspection(r.Context(), orderID, actor(r), items, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

// HandleGet returns the inspection record for one of the caller's orders
func (h *ReturnHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing user identity"})
		return
	}
	orderID, ok := orderIDVar(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	ret, err := h.returns.GetReturnByOrder(r.Context(), uid, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

// RegisterReturnRoutes registers the return workflow endpoints
func RegisterReturnRoutes(router *mux.Router, returns service.ReturnService) {
	handler := NewReturnHandler(returns)
	router.HandleFunc("/api/v1/orders/{order_id}/return", handler.HandleMarkReturned).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/inspection", handler.HandleStartInspection).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/inspection/complete", handler.HandleCompleteInspection).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/return", handler.HandleGet).Methods("GET")
}
