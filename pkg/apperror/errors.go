package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies where in the checkout pipeline an error originated.
type Kind int

const (
	KindGeneric Kind = iota
	// KindValidation errors are raised before anything is submitted; the cart is untouched.
	KindValidation
	// KindPersistence errors come from the backing store; the cart is untouched and a retry is allowed.
	KindPersistence
	// KindPrint errors never undo a committed order.
	KindPrint
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindPrint:
		return "print"
	default:
		return "generic"
	}
}

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Kind    Kind         `json:"-"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying collaborator error for logging.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrCheckoutInProgress = &AppError{Code: http.StatusConflict, Message: "Checkout already in progress"}
	ErrPrintingDisabled   = &AppError{Code: http.StatusConflict, Message: "Receipt printing is disabled", Kind: KindPrint}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Kind:    KindValidation,
		Errors:  fieldErrors,
	}
}

// NewValidationFailure creates a validation error carrying a single human message.
func NewValidationFailure(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Kind:    KindValidation,
	}
}

// NewPersistenceError hides the collaborator error behind a short message.
func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Kind:    KindPersistence,
		cause:   cause,
	}
}

// NewPrintError wraps a printer failure.
func NewPrintError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: message,
		Kind:    KindPrint,
		cause:   cause,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func kindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindGeneric
}

func IsValidation(err error) bool  { return kindOf(err) == KindValidation }
func IsPersistence(err error) bool { return kindOf(err) == KindPersistence }
func IsPrint(err error) bool       { return kindOf(err) == KindPrint }

// GetAppError converts an error to AppError if possible. Errors that are not
// AppErrors get a generic message; the original stays reachable via Unwrap.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Something went wrong, please try again",
		cause:   err,
	}
}
