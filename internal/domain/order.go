package domain

import "time"

type OrderStatus string

const (
	OrderStatusDraft          OrderStatus = "draft"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPicking        OrderStatus = "picking"
	OrderStatusShipping       OrderStatus = "shipping"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusActiveRental   OrderStatus = "active_rental"
	OrderStatusReturned       OrderStatus = "returned"
	OrderStatusOverdue        OrderStatus = "overdue"
	OrderStatusInspecting     OrderStatus = "inspecting"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// AllOrderStatuses lists every status the state machine knows about.
var AllOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPendingPayment,
	OrderStatusConfirmed,
	OrderStatusPicking,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusActiveRental,
	OrderStatusReturned,
	OrderStatusOverdue,
	OrderStatusInspecting,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// orderTransitions is the single source of truth for allowed status moves.
// Terminal states map to an empty list.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDraft:          {OrderStatusPendingPayment, OrderStatusCancelled},
	OrderStatusPendingPayment: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:        {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:       {OrderStatusDelivered},
	OrderStatusDelivered:      {OrderStatusActiveRental},
	OrderStatusActiveRental:   {OrderStatusReturned, OrderStatusOverdue},
	OrderStatusOverdue:        {OrderStatusReturned},
	OrderStatusReturned:       {OrderStatusInspecting},
	OrderStatusInspecting:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:      {},
	OrderStatusCancelled:      {},
}

// NormalizeOrderStatus maps legacy status values persisted by the old system
// onto their current names. Applied at every read boundary so the transition
// table never has to know about aliases.
func NormalizeOrderStatus(s OrderStatus) OrderStatus {
	switch s {
	case "pending":
		return OrderStatusPendingPayment
	case "renting":
		return OrderStatusActiveRental
	default:
		return s
	}
}

// CanTransition reports whether the state machine allows moving from one
// status to another. Both sides are normalized first.
func CanTransition(from, to OrderStatus) bool {
	from = NormalizeOrderStatus(from)
	to = NormalizeOrderStatus(to)
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s OrderStatus) bool {
	return len(orderTransitions[NormalizeOrderStatus(s)]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodMomo  PaymentMethod = "momo"
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodStore PaymentMethod = "store"
)

// IsCashMethod reports whether the method has no online payment step, meaning
// reservations are confirmed at order creation rather than on a gateway
// callback.
func (m PaymentMethod) IsCashMethod() bool {
	return m == PaymentMethodCOD || m == PaymentMethodStore
}

// StatusChange is one append-only entry in an order's status history.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changed_at"`
	ChangedBy string      `json:"changed_by"`
	Notes     string      `json:"notes,omitempty"`
}

type Address struct {
	Recipient string `json:"recipient"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Ward      string `json:"ward,omitempty"`
	District  string `json:"district,omitempty"`
	City      string `json:"city"`
}

// OrderItem is a line on an order. Name, image, price and deposit are
// snapshots taken at order time; later catalog edits never change them.
type OrderItem struct {
	ProductID   int64      `json:"product_id"`
	Name        string     `json:"name"`
	Image       string     `json:"image,omitempty"`
	Variant     VariantKey `json:"variant"`
	RentalStart time.Time  `json:"rental_start"`
	RentalEnd   time.Time  `json:"rental_end"`
	RentalDays  int        `json:"rental_days"`
	PricePerDay int64      `json:"price_per_day"`
	Deposit     int64      `json:"deposit"`
	Quantity    int        `json:"quantity"`
	LineTotal   int64      `json:"line_total"`
}

type Order struct {
	ID              int64          `json:"id"`
	OrderNumber     string         `json:"order_number"`
	UserID          int64          `json:"user_id"`
	Items           []OrderItem    `json:"items"`
	ShippingAddress *Address       `json:"shipping_address,omitempty"`
	Subtotal        int64          `json:"subtotal"`
	Discount        int64          `json:"discount"`
	ShippingFee     int64          `json:"shipping_fee"`
	ServiceFee      int64          `json:"service_fee"`
	CouponCode      string         `json:"coupon_code,omitempty"`
	CouponDiscount  int64          `json:"coupon_discount"`
	TotalDeposit    int64          `json:"total_deposit"`
	Total           int64          `json:"total"`
	LateFee         int64          `json:"late_fee"`
	DepositRefunded int64          `json:"deposit_refunded"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	PaymentStatus   PaymentStatus  `json:"payment_status"`
	TransactionID   string         `json:"transaction_id,omitempty"`
	Status          OrderStatus    `json:"status"`
	StatusHistory   []StatusChange `json:"status_history"`
	Notes           string         `json:"notes,omitempty"`
	PickupDeadline  *time.Time     `json:"pickup_deadline,omitempty"`
	ConfirmedAt     *time.Time     `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time     `json:"delivered_at,omitempty"`
	ReturnedAt      *time.Time     `json:"returned_at,omitempty"`
	InspectedAt     *time.Time     `json:"inspected_at,omitempty"`
	CreatedOn       time.Time      `json:"created_on"`
	UpdatedOn       time.Time      `json:"updated_on"`
}

// LatestRentalEnd returns the furthest rental end date across all items,
// used by the overdue sweep and late fee computation.
func (o *Order) LatestRentalEnd() time.Time {
	var latest time.Time
	for _, it := range o.Items {
		if it.RentalEnd.After(latest) {
			latest = it.RentalEnd
		}
	}
	return latest
}
