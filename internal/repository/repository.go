package repository

import (
	"context"
	"time"

	"dressrental-backend/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID int64, status domain.OrderStatus, page, pageSize int32) ([]domain.Order, int32, error)
}

type ReservationRepository interface {
	// SumBlockingOverlapping sums quantities of reservations for the variant
	// whose [start,end) overlaps the probe window and which still block
	// capacity: confirmed, or hold with expires_at in the future.
	SumBlockingOverlapping(ctx context.Context, productID int64, variant domain.VariantKey, start, end time.Time) (int, error)
	// CreateIfAvailable re-checks capacity and inserts the hold inside one
	// transaction, failing with NOT_AVAILABLE if another request took the
	// remaining stock between the caller's check and this insert.
	CreateIfAvailable(ctx context.Context, res *domain.Reservation, totalStock int) error
	ConfirmByOrder(ctx context.Context, orderID int64) (int64, error)
	ReleaseByOrder(ctx context.Context, orderID int64) (int64, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.Reservation, error)
}

type InventoryRepository interface {
	GetByVariant(ctx context.Context, productID int64, variant domain.VariantKey) (*domain.Inventory, error)
	// MoveToLost and MoveToRepair shift quantity out of the available pool
	// using conditional updates that refuse to drive any field negative.
	MoveToLost(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error
	MoveToRepair(ctx context.Context, productID int64, variant domain.VariantKey, qty int) error
	Adjust(ctx context.Context, productID int64, variant domain.VariantKey, deltaAvailable, deltaCleaning, deltaRepair, deltaLost int) error
}

type ReturnRepository interface {
	Create(ctx context.Context, ret *domain.Return) error
	GetByOrder(ctx context.Context, orderID int64) (*domain.Return, error)
	Update(ctx context.Context, ret *domain.Return) error
}

type CartRepository interface {
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	IncrementUsage(ctx context.Context, id int64) error
}

type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.AuditEntry, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}
