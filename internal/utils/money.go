package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ServiceFee computes the percentage surcharge on the subtotal, rounded to
// the nearest whole currency unit.
func ServiceFee(subtotal int64, percent float64) int64 {
	return int64(math.Round(float64(subtotal) * percent / 100))
}

// LateFee computes the penalty for one order item: price-per-day times days
// late times quantity, scaled by the configured multiplier.
func LateFee(pricePerDay int64, daysLate, quantity int, multiplier float64) int64 {
	return int64(math.Round(float64(pricePerDay) * float64(daysLate) * float64(quantity) * multiplier))
}

// OrderTotal applies the order pricing formula, floored at zero so stacked
// discounts can never produce a negative charge.
func OrderTotal(subtotal, discount, couponDiscount, shippingFee, serviceFee int64) int64 {
	total := subtotal - discount - couponDiscount + shippingFee + serviceFee
	if total < 0 {
		return 0
	}
	return total
}

// DepositRefund nets late and damage fees against the deposit, floored at
// zero; fees beyond the deposit are absorbed, never billed as a negative
// refund.
func DepositRefund(totalDeposit, lateFee, totalDamageFee int64) int64 {
	refund := totalDeposit - lateFee - totalDamageFee
	if refund < 0 {
		return 0
	}
	return refund
}

// OrderNumber mints an order number from the creation date and a random
// uppercase hex tail. Uniqueness comes from the tail, not a per-day counter,
// so concurrent checkouts never mint the same number.
func OrderNumber(t time.Time) string {
	id := uuid.New()
	return fmt.Sprintf("ORD-%s-%X", t.Format("20060102"), id[:3])
}
