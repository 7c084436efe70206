package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/wempy/storefront/internal/domain"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when the remote API rejects a credential
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInvalidStateTransition is returned when a checkout attempt moves out of order
type ErrInvalidStateTransition struct {
	From domain.CheckoutStage
	To   domain.CheckoutStage
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid checkout transition from %s to %s", e.From, e.To)
}

// ValidationReason names the input problem behind an ErrValidation
type ValidationReason string

const (
	ReasonEmptyCart            ValidationReason = "empty_cart"
	ReasonMissingZone          ValidationReason = "missing_zone"
	ReasonMissingPaymentMethod ValidationReason = "missing_payment_method"
	ReasonInvalidQuantity      ValidationReason = "invalid_quantity"
	ReasonInvalidPrice         ValidationReason = "invalid_price"
	ReasonUnorderableItem      ValidationReason = "unorderable_item"
)

// ErrValidation is a recoverable input problem. No network call is made.
type ErrValidation struct {
	Reason  ValidationReason
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// ErrNotAuthenticated is returned when no user identity is held for the profile
type ErrNotAuthenticated struct{}

func (e *ErrNotAuthenticated) Error() string {
	return "user is not authenticated"
}

// ErrAddressPersist is returned when a new delivery address could not be created
type ErrAddressPersist struct {
	Detail string
	Err    error
}

func (e *ErrAddressPersist) Error() string {
	return stepMessage("failed to save address", e.Detail, e.Err)
}

func (e *ErrAddressPersist) Unwrap() error { return e.Err }

// ErrNoActiveShift is returned when no operating shift is marked active
type ErrNoActiveShift struct {
	Detail string
	Err    error
}

func (e *ErrNoActiveShift) Error() string {
	return stepMessage("no active shift", e.Detail, e.Err)
}

func (e *ErrNoActiveShift) Unwrap() error { return e.Err }

// ErrOrderCreate is returned when the remote API refuses to create an order
type ErrOrderCreate struct {
	Detail string
	Err    error
}

func (e *ErrOrderCreate) Error() string {
	return stepMessage("failed to create order", e.Detail, e.Err)
}

func (e *ErrOrderCreate) Unwrap() error { return e.Err }

// ErrNetwork is a transport level failure, distinct from a non-2xx response
type ErrNetwork struct {
	Op  string
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrAPI is a non-2xx response from the remote API
type ErrAPI struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *ErrAPI) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

// ErrDecode is returned when a payload does not match the expected schema
type ErrDecode struct {
	Resource string
	Err      error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("malformed %s payload: %v", e.Resource, e.Err)
}

func (e *ErrDecode) Unwrap() error { return e.Err }

// ErrSubmissionInProgress is returned when a checkout is already running for the profile
type ErrSubmissionInProgress struct{}

func (e *ErrSubmissionInProgress) Error() string {
	return "order submission already in progress"
}

// Detail extracts the server supplied message carried by err, if any
func Detail(err error) string {
	var apiErr *ErrAPI
	if stderrors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsNotFound reports whether err is, or wraps, an ErrNotFound or a 404 response
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	if stderrors.As(err, &nf) {
		return true
	}
	var apiErr *ErrAPI
	return stderrors.As(err, &apiErr) && apiErr.StatusCode == 404
}

func stepMessage(base, detail string, cause error) string {
	switch {
	case detail != "":
		return fmt.Sprintf("%s: %s", base, detail)
	case cause != nil:
		return fmt.Sprintf("%s: %v", base, cause)
	default:
		return base
	}
}
