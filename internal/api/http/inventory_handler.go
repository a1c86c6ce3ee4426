package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/domain"
	"dressrental-backend/internal/service"
)

// InventoryHandler exposes stock lookup and manual correction (staff endpoints)
type InventoryHandler struct {
	inventory service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// HandleGetVariant returns the stock record for one size/color of a product
func (h *InventoryHandler) HandleGetVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["product_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid product id"})
		return
	}

	inv, err := h.inventory.GetVariant(r.Context(), productID, variantFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

type adjustRequest struct {
	Size           string `json:"size"`
	Color          string `json:"color"`
	DeltaAvailable int    `json:"delta_available"`
	DeltaCleaning  int    `json:"delta_cleaning"`
	DeltaRepair    int    `json:"delta_repair"`
	DeltaLost      int    `json:"delta_lost"`
}

// HandleAdjust applies a manual stock correction after a physical count
func (h *InventoryHandler) HandleAdjust(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(mux.Vars(r)["product_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid product id"})
		return
	}

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "malformed request body"})
		return
	}

	variant := domain.VariantKey{Size: req.Size, Color: req.Color}
	if err := h.inventory.Adjust(r.Context(), productID, variant,
		req.DeltaAvailable, req.DeltaCleaning, req.DeltaRepair, req.DeltaLost); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterInventoryRoutes registers the inventory endpoints
func RegisterInventoryRoutes(router *mux.Router, inventory service.InventoryService) {
	handler := NewInventoryHandler(inventory)
	router.HandleFunc("/api/v1/products/{product_id}/inventory", handler.HandleGetVariant).Methods("GET")
	router.HandleFunc("/api/v1/products/{product_id}/inventory/adjust", handler.HandleAdjust).Methods("POST")
}
