package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"dressrental-backend/internal/service"
)

// Services bundles everything the HTTP layer needs
type Services struct {
	Orders        service.OrderService
	Availability  service.AvailabilityService
	Payments      service.PaymentService
	Returns       service.ReturnService
	Inventory     service.InventoryService
	Notifications service.NotificationService
}

// NewRouter assembles the full API router
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	RegisterOrderRoutes(router, svcs.Orders, svcs.Returns)
	RegisterAvailabilityRoutes(router, svcs.Availability)
	RegisterWebhookRoutes(router, svcs.Payments)
	RegisterReturnRoutes(router, svcs.Returns)
	RegisterInventoryRoutes(router, svcs.Inventory)
	RegisterNotificationRoutes(router, svcs.Notifications)

	return router
}
