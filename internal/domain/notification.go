package domain

import "time"

// Notification event kinds emitted by the order lifecycle. Delivery is
// fire-and-forget: a failed send never fails the state transition that
// triggered it.
const (
	NotifyOrderConfirmed = "ORDER_CONFIRMED"
	NotifyOrderShipped   = "ORDER_SHIPPED"
	NotifyRentalOverdue  = "RENTAL_OVERDUE"
	NotifyReturnApproved = "RETURN_APPROVED"
)

type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}
