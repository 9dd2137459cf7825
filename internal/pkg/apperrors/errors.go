package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrPasswordChanged    = errors.New("password changed after token was issued")
	ErrAccountInactive    = errors.New("account is not active")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Rate limiting
	ErrTooManyRequests = errors.New("too many requests")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already in use")
)

// Email verification errors
var (
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrInvalidEmailToken    = errors.New("invalid or expired verification link")
	ErrEmailAlreadyVerified = errors.New("email already verified")
)

// Password reset errors
var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrEmailSendFailed   = errors.New("error sending email")
)

// Marketplace errors
var (
	ErrCarNotFound      = errors.New("car not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category with this name already exists")
	ErrReviewNotFound   = errors.New("review not found")
	ErrAddressNotFound  = errors.New("address not found")
	ErrChatNotFound     = errors.New("chat not found")
	ErrImageNotFound    = errors.New("image not found for this car")
	ErrOwnCarReview     = errors.New("you cannot review your own car")
	ErrImageLimit       = errors.New("maximum number of images reached for this car")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying sentinel error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewResourceNotFoundError creates a not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission-denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewTooManyRequestsError creates a rate-limit error with a message
func NewTooManyRequestsError(message string) error {
	return &CustomError{Err: ErrTooManyRequests, Message: message}
}
