package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// ErrorKind classifies a domain error; each kind maps onto one HTTP status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeCourseNotFound     = "COURSE_NOT_FOUND"
	ErrCodeCourseUnavailable  = "COURSE_UNAVAILABLE"
	ErrCodeCartNotFound       = "CART_NOT_FOUND"
	ErrCodeCartEmpty          = "CART_EMPTY"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a business rule failure that is safe to show to the caller.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError wraps a payload validation failure.
func NewValidationError(message string) *DomainError {
	return NewDomainError(KindValidation, ErrCodeValidation, message)
}

// AsDomainError reports whether err carries a DomainError and returns it.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrInvalidQuantity    = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be between 1 and 1000")
	ErrInvalidCredentials = NewDomainError(KindUnauthenticated, ErrCodeInvalidCredentials, "Invalid email or password")
	ErrEmailTaken         = NewDomainError(KindConflict, ErrCodeEmailTaken, "User already exists")
	ErrRoleNotAllowed     = NewDomainError(KindForbidden, ErrCodeForbidden, "Role cannot be assigned at registration")
	ErrUnauthenticated    = NewDomainError(KindUnauthenticated, ErrCodeUnauthorised, "Authentication required")
	ErrForbidden          = NewDomainError(KindForbidden, ErrCodeForbidden, "Admin access required")
	ErrCourseNotFound     = NewDomainError(KindNotFound, ErrCodeCourseNotFound, "Course not found")
	ErrCourseUnavailable  = NewDomainError(KindNotFound, ErrCodeCourseUnavailable, "Course not found or unavailable")
	ErrCartNotFound       = NewDomainError(KindNotFound, ErrCodeCartNotFound, "Cart not found")
	ErrCartEmpty          = NewDomainError(KindValidation, ErrCodeCartEmpty, "Cart is empty")
	ErrCartItemNotFound   = NewDomainError(KindNotFound, ErrCodeCartItemNotFound, "Cart item not found")
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
)
