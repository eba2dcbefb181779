package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeAuthUnavailable  = "AUTH_UNAVAILABLE"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside the message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors. Gateway and session failures wrap these
// sentinels so callers can branch with errors.Is.
var (
	// ErrAuthUnavailable means no anonymous session could be
	// established; the cart degrades to an inert, empty view.
	ErrAuthUnavailable = NewDomainError(ErrCodeAuthUnavailable, "Anonymous session could not be established")

	// ErrStoreUnavailable covers network or service failures against
	// the backing store. Retry policy belongs to the caller.
	ErrStoreUnavailable = NewDomainError(ErrCodeStoreUnavailable, "Cart store is unavailable")

	// ErrNotFound means a cart or product row is missing.
	ErrNotFound = NewDomainError(ErrCodeNotFound, "Record not found")

	// ErrInvalidQuantity rejects non-positive line item quantities.
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
)
