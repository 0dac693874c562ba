package order

import "errors"

var (
	ErrEmptyCart             = errors.New("your cart is empty")
	ErrInvalidPaymentDetails = errors.New("invalid payment details")
	ErrInvalidCustomer       = errors.New("invalid customer details")
	ErrUnknownAction         = errors.New("unknown status action")
)
