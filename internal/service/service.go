package service

import (
	"context"
	"time"

	"dressrental-backend/internal/domain"
)

// AvailabilityResult answers "can N units be rented over this window".
type AvailabilityResult struct {
	Available  bool `json:"available"`
	TotalStock int  `json:"total_stock"`
	Reserved   int  `json:"reserved"`
}

// CalendarDay is one cell of the date-picker calendar.
type CalendarDay struct {
	Date       time.Time `json:"date"`
	TotalStock int       `json:"total_stock"`
	Reserved   int       `json:"reserved"`
	Available  int       `json:"available"`
}

// HoldRequest asks the availability engine to reserve quantity of a variant
// for a half-open window.
type HoldRequest struct {
	UserID    int64
	ProductID int64
	Variant   domain.VariantKey
	StartDate time.Time
	EndDate   time.Time
	Quantity  int
	OrderID   *int64
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time, quantity int) (*AvailabilityResult, error)
	CreateHold(ctx context.Context, req HoldRequest) (*domain.Reservation, error)
	ConfirmByOrder(ctx context.Context, orderID int64) error
	ReleaseByOrder(ctx context.Context, orderID int64) error
	MonthCalendar(ctx context.Context, productID int64, variant domain.VariantKey, year int, month time.Month) ([]CalendarDay, error)
}

// CreateOrderInput carries checkout parameters. ItemIDs selects a subset of
// the cart for partial checkout; empty means the whole cart.
type CreateOrderInput struct {
	ShippingAddress *domain.Address
	PaymentMethod   domain.PaymentMethod
	Notes           string
	CouponCode      string
	ItemIDs         []int64
}

type OrderService interface {
	CreateOrder(ctx context.Context, userID int64, input CreateOrderInput) (*domain.Order, error)
	Transition(ctx context.Context, orderID int64, to domain.OrderStatus, actor, notes string) (*domain.Order, error)
	ActivateCodRental(ctx context.Context, orderID int64, actor string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID int64, actor, reason string) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
	// AuditTrail returns the append-only action log for one order, oldest
	// entry first. Staff-facing; it does not filter by owner.
	AuditTrail(ctx context.Context, orderID int64) ([]domain.AuditEntry, error)
}

type PaymentService interface {
	// HandleOutcome consumes one gateway callback. It is idempotent: the
	// same outcome delivered twice mutates nothing the second time.
	HandleOutcome(ctx context.Context, outcome domain.PaymentOutcome) error
}

// InspectionItem is one per-item assessment submitted at inspection
// completion. DamageFee is a display hint from the caller; the service
// recomputes the fee from the condition code and the deposit snapshot.
type InspectionItem struct {
	OrderItemIndex int
	ConditionAfter domain.ItemCondition
	DamageNotes    string
	DamageFee      int64
}

type ReturnService interface {
	MarkReturned(ctx context.Context, orderID int64, actor string) (*domain.Order, error)
	StartInspection(ctx context.Context, orderID int64, actor string) (*domain.Return, error)
	CompleteInspection(ctx context.Context, orderID int64, actor string, items []InspectionItem, notes string) (*domain.Return, error)
	GetReturnByOrder(ctx context.Context, userID, orderID int64) (*domain.Return, error)
}

type InventoryService interface {
	GetVariant(ctx context.Context, productID int64, variant domain.VariantKey) (*domain.Inventory, error)
	Adjust(ctx context.Context, productID int64, variant domain.VariantKey, deltaAvailable, deltaCleaning, deltaRepair, deltaLost int) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total int64) error
	SendOrderShipped(ctx context.Context, email, name, orderNumber string) error
	SendOverdueReminder(ctx context.Context, email, name, orderNumber string, daysLate int) error
	SendSettlementSummary(ctx context.Context, email, name, orderNumber string, lateFee, damageFee, refund int64) error
}
