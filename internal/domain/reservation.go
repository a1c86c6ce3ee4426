package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusHold      ReservationStatus = "hold"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusReleased  ReservationStatus = "released"
	ReservationStatusExpired   ReservationStatus = "expired"
)

// VariantKey identifies the unit of inventory tracking: one size/color
// combination of a product. Color may be empty when a product has no color
// options.
type VariantKey struct {
	Size  string `json:"size"`
	Color string `json:"color,omitempty"`
}

// Reservation is a claim on a quantity of one variant for a half-open date
// range [StartDate, EndDate). A hold carries a TTL in ExpiresAt and stops
// counting toward capacity the moment the TTL passes, whether or not the
// expiry sweep has marked it yet.
type Reservation struct {
	ID        int64             `json:"id"`
	ProductID int64             `json:"product_id"`
	Variant   VariantKey        `json:"variant"`
	UserID    int64             `json:"user_id"`
	OrderID   *int64            `json:"order_id,omitempty"`
	StartDate time.Time         `json:"start_date"`
	EndDate   time.Time         `json:"end_date"`
	Quantity  int               `json:"quantity"`
	Status    ReservationStatus `json:"status"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CreatedOn time.Time         `json:"created_on"`
	UpdatedOn time.Time         `json:"updated_on"`
}

// Blocks reports whether the reservation counts toward capacity at the given
// instant. Confirmed reservations always block; holds block until their TTL
// passes; released and expired never block.
func (r *Reservation) Blocks(now time.Time) bool {
	switch r.Status {
	case ReservationStatusConfirmed:
		return true
	case ReservationStatusHold:
		return r.ExpiresAt == nil || r.ExpiresAt.After(now)
	default:
		return false
	}
}

// IntervalsOverlap implements the strict half-open overlap test used
// everywhere reservations are counted: [aStart,aEnd) and [bStart,bEnd)
// overlap iff aStart < bEnd && aEnd > bStart. Back-to-back ranges where one
// ends exactly when the other starts do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
