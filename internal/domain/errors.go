package domain

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the boundary. Codes are stable machine-readable
// identifiers; messages are for humans.
const (
	CodeEmptyCart              = "EMPTY_CART"
	CodeEmptySelection         = "EMPTY_SELECTION"
	CodeInvalidItem            = "INVALID_ITEM"
	CodeMissingRentalDates     = "MISSING_RENTAL_DATES"
	CodeMissingShippingAddress = "MISSING_SHIPPING_ADDRESS"
	CodeNotAvailable           = "NOT_AVAILABLE"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeInvalidStatus          = "INVALID_STATUS"
	CodeOrderNotFound          = "ORDER_NOT_FOUND"
	CodeReturnNotFound         = "RETURN_NOT_FOUND"
	CodeInventoryNotFound      = "INVENTORY_NOT_FOUND"
	CodeCartNotFound           = "CART_NOT_FOUND"
	CodeCouponInvalid          = "COUPON_INVALID"
)

// Error is a coded application error. It propagates to the boundary
// unmodified so callers can branch on Code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError builds a coded error with a formatted message.
func NewError(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// ErrCode extracts the code from err, or "" if err is not a coded error.
func ErrCode(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
