package service

import "errors"

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrConflict            = errors.New("conflict")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error is a business error with a client-facing message. It unwraps to
// its kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation builds a ValidationFailed error carrying msg.
func Validation(msg string) error {
	return newError(ErrValidation, msg)
}

var (
	ErrOrderNotFound      = newError(ErrNotFound, "Order not found")
	ErrRestaurantNotFound = newError(ErrNotFound, "Restaurant not found")
	ErrDishNotFound       = newError(ErrNotFound, "Dish not found")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")

	ErrInvalidCredentials = newError(ErrUnauthenticated, "Invalid email or password")
	ErrSessionInvalid     = newError(ErrUnauthenticated, "Session invalid")
	ErrNotLoggedIn        = newError(ErrUnauthenticated, "Not authenticated")

	ErrRoleMismatch       = newError(ErrForbidden, "Role mismatch")
	ErrAccessDenied       = newError(ErrForbidden, "Access denied")
	ErrCustomerCancelOnly = newError(ErrForbidden, "Customers can only cancel orders")

	ErrOrderCompleted = newError(ErrInvalidTransition, "Cannot cancel an order that has already been completed")

	ErrEmailTaken        = newError(ErrConflict, "Email is already registered")
	ErrConcurrentUpdate  = newError(ErrConflict, "Order was modified concurrently, retry the request")
	ErrInvalidFileFormat = newError(ErrValidation, "Invalid file format. Only .jpg, .jpeg, .png, .gif, .webp are allowed")
	ErrFileSizeExceeded  = newError(ErrValidation, "File size exceeds the 5MB limit")
)
