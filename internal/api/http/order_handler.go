package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/service"
)

// OrderHandler exposes checkout and order lifecycle endpoints
type OrderHandler struct {
	orders  service.OrderService
	returns service.ReturnService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService, returns service.ReturnService) *OrderHandler {
	return &OrderHandler{orders: orders, returns: returns}
}

type createOrderRequest struct {
	ShippingAddress *domain.Address `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Notes           string          `json:"notes"`
	CouponCode      string          `json:"coupon_code"`
	ItemIDs         []int64         `json:"item_ids"`
}

// HandleCreate checks out the caller's cart into a new order
func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing user identity"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "malformed request body"})
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), uid, service.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		Notes:           req.Notes,
		CouponCode:      req.CouponCode,
		ItemIDs:         req.ItemIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// HandleGet returns one of the caller's orders
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing user identity"})
		return
	}
	orderID, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), uid, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// HandleList returns the caller's orders, optionally filtered by status
func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing user identity"})
		return
	}

	q := r.URL.Query()
	page, pageSize := int32(1), int32(20)
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			pageSize = int32(v)
		}
	}
	status := domain.OrderStatus(q.Get("status"))

	orders, total, err := h.orders.ListOrders(r.Context(), uid, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
	})
}

// HandleCancel cancels an order and releases its reservations
func (h *OrderHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// Body is optional for cancellation.
	_ = json.NewDecoder(r.Body).Decode(&body)

	order, err := h.orders.Cancel(r.Context(), orderID, actor(r), body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type transitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// HandleTransition moves an order to a new lifecycle state (staff endpoint)
func (h *OrderHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "malformed request body"})
		return
	}

	order, err := h.orders.Transition(r.Context(), orderID, domain.OrderStatus(req.Status), actor(r), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// HandleActivate records in-store payment received and starts the rental
func (h *OrderHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	order, err := h.orders.ActivateCodRental(r.Context(), orderID, actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// HandleAuditTrail returns the action log for one order (staff endpoint)
func (h *OrderHandler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["order_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid order id"})
		return
	}

	entries, err := h.orders.AuditTrail(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// RegisterOrderRoutes registers the order lifecycle endpoints
func RegisterOrderRoutes(router *mux.Router, orders service.OrderService, returns service.ReturnService) {
	handler := NewOrderHandler(orders, returns)
	router.HandleFunc("/api/v1/orders", handler.HandleCreate).Methods("POST")
	router.HandleFunc("/api/v1/orders", handler.HandleList).Methods("GET")
	router.HandleFunc("/api/v1/orders/{order_id}", handler.HandleGet).Methods("GET")
	router.HandleFunc("/api/v1/orders/{order_id}/cancel", handler.HandleCancel).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/status", handler.HandleTransition).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/activate", handler.HandleActivate).Methods("POST")
	router.HandleFunc("/api/v1/orders/{order_id}/audit", handler.HandleAuditTrail).Methods("GET")
}
