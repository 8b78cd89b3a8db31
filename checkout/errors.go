package checkout

import (
	"errors"
	"fmt"
)

// Business rule rejections found while reconciling. The buyer is sent back to
// another checkout step, they are not failures of the attempt.
var (
	ErrPaymentNotValidForUserCountry = errors.New("payment not valid for user country")
	ErrShippingMethodNotValid        = errors.New("shipping method not valid")
	ErrOrderTotalChanged             = errors.New("order total did change")
)

// ErrPaymentNotValid is returned by [Flow.Start] when PayPal is not
// available for the basket.
var ErrPaymentNotValid = errors.New("payment not valid for basket")

// OrderReason is what made the fetched order details unusable.
type OrderReason int

const (
	ReasonStatus OrderReason = iota + 1
	ReasonPayer
	ReasonDetails
)

// OrderError rejects the fetched order details. It ends the checkout attempt.
type OrderError struct {
	Reason OrderReason
	// Detail is the unexpected status for ReasonStatus and a translation key
	// or message for ReasonDetails.
	Detail string
}

// ByDetailsStatus rejects details whose status is not APPROVED.
func ByDetailsStatus(status string) *OrderError {
	return &OrderError{Reason: ReasonStatus, Detail: status}
}

// ByDetailsPayer rejects details without payer information.
func ByDetailsPayer() *OrderError {
	return &OrderError{Reason: ReasonPayer}
}

func ByDetails(msg string) *OrderError {
	return &OrderError{Reason: ReasonDetails, Detail: msg}
}

func (e *OrderError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("order status is not approved: %s", e.Detail)
	case ReasonPayer:
		return "order details contain no user information"
	}
	return fmt.Sprintf("order details user error: '%s'", e.Detail)
}
