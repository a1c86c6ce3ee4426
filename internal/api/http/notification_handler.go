package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/service"
)

// NotificationHandler exposes the in-app notification feed
type NotificationHandler struct {
	notifications service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleList returns the caller's notifications, newest first
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.notifications.GetNotifications(r.Context(), uid, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"total":         total,
		"page":          page,
	})
}

// HandleMarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing user identity"})
		return
	}
	notificationID, err := strconv.ParseInt(mux.Vars(r)["notification_id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "INVALID_REQUEST", Message: "invalid notification id"})
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), uid, notificationID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterNotificationRoutes registers the notification endpoints
func RegisterNotificationRoutes(router *mux.Router, notifications service.NotificationService) {
	handler := NewNotificationHandler(notifications)
	router.HandleFunc("/api/v1/notifications", handler.HandleList).Methods("GET")
	router.HandleFunc("/api/v1/notifications/{notification_id}/read", handler.HandleMarkRead).Methods("POST")
}
