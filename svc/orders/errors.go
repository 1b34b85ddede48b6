package orders

import "errors"

var (
	// ErrEmptyOrder is returned before any call for an order without items.
	ErrEmptyOrder = errors.New("orders.empty")

	// ErrMissingUser is returned when the order has no user id.
	ErrMissingUser = errors.New("orders.missing_user")

	// ErrOrderRejected is returned when the backend answers success=false.
	ErrOrderRejected = errors.New("orders.rejected")

	// ErrInvalidPaymentMethod is returned for a method outside PaymentMethods.
	ErrInvalidPaymentMethod = errors.New("orders.invalid_payment_method")

	// ErrPaymentDeclined is returned when the backend answers success=false.
	ErrPaymentDeclined = errors.New("orders.payment_declined")
)
