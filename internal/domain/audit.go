package domain

import "time"

// AuditEntry is one append-only record of a state transition or financial
// computation. Entries are never updated or deleted.
type AuditEntry struct {
	ID         int64       `json:"id"`
	OrderID    int64       `json:"order_id"`
	Action     string      `json:"action"`
	FromStatus OrderStatus `json:"from_status,omitempty"`
	ToStatus   OrderStatus `json:"to_status,omitempty"`
	Actor      string      `json:"actor"`
	Detail     string      `json:"detail,omitempty"`
	CreatedOn  time.Time   `json:"created_on"`
}

// Audit actions. Transitions use ActionTransition plus from/to; financial
// computations carry their breakdown in Detail.
const (
	AuditActionCreate     = "create"
	AuditActionTransition = "transition"
	AuditActionPayment    = "payment"
	AuditActionSettlement = "settlement"
)
