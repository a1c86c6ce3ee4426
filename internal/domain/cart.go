package domain

import "time"

// CartItem is the materialized view of one basket line handed to order
// creation. Name/image/price/deposit are already snapshots; the order
// lifecycle only reads carts, it never owns cart mutation logic.
type CartItem struct {
	ID          int64      `json:"id"`
	ProductID   int64      `json:"product_id"`
	Name        string     `json:"name"`
	Image       string     `json:"image,omitempty"`
	Variant     VariantKey `json:"variant"`
	RentalStart *time.Time `json:"rental_start,omitempty"`
	RentalEnd   *time.Time `json:"rental_end,omitempty"`
	RentalDays  int        `json:"rental_days"`
	PricePerDay int64      `json:"price_per_day"`
	Deposit     int64      `json:"deposit"`
	Quantity    int        `json:"quantity"`
	LineTotal   int64      `json:"line_total"`
}

type CartTotals struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	ShippingFee int64 `json:"shipping_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

type Cart struct {
	UserID int64      `json:"user_id"`
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}

// Coupon is the slice of the promotion entity the order flow needs: enough to
// validate a code and record one use.
type Coupon struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Discount   int64      `json:"discount"`
	MaxUses    int        `json:"max_uses"`
	UsedCount  int        `json:"used_count"`
	ValidFrom  *time.Time `json:"valid_from,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	Active     bool       `json:"active"`
}

// Usable reports whether the coupon can be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}
