package domain

import "time"

type ReturnStatus string

const (
	ReturnStatusPendingInspection ReturnStatus = "pending_inspection"
	ReturnStatusInspected         ReturnStatus = "inspected"
	ReturnStatusClosed            ReturnStatus = "closed"
)

type ItemCondition string

const (
	ConditionNew       ItemCondition = "new"
	ConditionGood      ItemCondition = "good"
	ConditionDamage20  ItemCondition = "damage_20"
	ConditionDamage40  ItemCondition = "damage_40"
	ConditionDamage60  ItemCondition = "damage_60"
	ConditionDamage80  ItemCondition = "damage_80"
	ConditionDestroyed ItemCondition = "destroyed"
)

var damagePercent = map[ItemCondition]int64{
	ConditionNew:       0,
	ConditionGood:      0,
	ConditionDamage20:  20,
	ConditionDamage40:  40,
	ConditionDamage60:  60,
	ConditionDamage80:  80,
	ConditionDestroyed: 100,
}

// ValidCondition reports whether c is a known inspection outcome.
func ValidCondition(c ItemCondition) bool {
	_, ok := damagePercent[c]
	return ok
}

// DamageFeeFor computes the damage fee for one item assessment from its
// deposit snapshot. This is always recomputed server-side; caller-supplied
// fees are treated as display hints only.
func DamageFeeFor(deposit int64, quantity int, condition ItemCondition) int64 {
	return deposit * int64(quantity) * damagePercent[condition] / 100
}

// ReturnItem is one per-garment damage assessment inside a Return.
type ReturnItem struct {
	OrderItemIndex  int           `json:"order_item_index"`
	ProductID       int64         `json:"product_id"`
	Variant         VariantKey    `json:"variant"`
	Quantity        int           `json:"quantity"`
	ConditionBefore ItemCondition `json:"condition_before,omitempty"`
	ConditionAfter  ItemCondition `json:"condition_after"`
	DamageNotes     string        `json:"damage_notes,omitempty"`
	DamageFee       int64         `json:"damage_fee"`
}

// Return is the inspection record, one per order. It is written once at
// inspection completion and immutable afterwards: it represents the
// historical settlement.
type Return struct {
	ID                  int64        `json:"id"`
	OrderID             int64        `json:"order_id"`
	UserID              int64        `json:"user_id"`
	ReturnMethod        string       `json:"return_method,omitempty"`
	Items               []ReturnItem `json:"items"`
	TotalDamageFee      int64        `json:"total_damage_fee"`
	LateFee             int64        `json:"late_fee"`
	DepositRefundAmount int64        `json:"deposit_refund_amount"`
	Status              ReturnStatus `json:"status"`
	InspectedBy         string       `json:"inspected_by,omitempty"`
	InspectedAt         *time.Time   `json:"inspected_at,omitempty"`
	CreatedOn           time.Time    `json:"created_on"`
	UpdatedOn           time.Time    `json:"updated_on"`
}
