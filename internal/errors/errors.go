package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest is returned when a required input field is missing.
	ErrBadRequest = errors.New("name, email, and password are required")
	// ErrInvalidEmailFormat is returned when an email fails the format check.
	ErrInvalidEmailFormat = errors.New("Invalid Email Formatting")
	// ErrDuplicateEmail is returned when the email belongs to another user.
	ErrDuplicateEmail = errors.New("That account already exists")
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("unknown user")
	// ErrUnauthorized is returned when no valid, non-revoked token is attached.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the caller lacks the self/role relationship.
	ErrForbidden = errors.New("forbidden")
	// ErrObscuredNotFound hides an admin-only capability from other callers.
	ErrObscuredNotFound = errors.New("unknown endpoint")
	// ErrInvalidSignature is returned by the token codec for malformed or tampered tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionExists is returned when the same token is registered twice.
	ErrSessionExists = errors.New("session already exists")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Forbidden deliberately reuses the unauthorized wording; the status code is what differs.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrBadRequest):
		return NewHTTPError(http.StatusBadRequest, ErrBadRequest.Error(), "BAD_REQUEST")
	case errors.Is(err, ErrInvalidEmailFormat):
		return NewHTTPError(http.StatusUnprocessableEntity, ErrInvalidEmailFormat.Error(), "INVALID_EMAIL_FORMAT")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusNotFound, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidSignature):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrUnauthorized.Error(), "FORBIDDEN")
	case errors.Is(err, ErrObscuredNotFound):
		return NewHTTPError(http.StatusNotFound, ErrObscuredNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
