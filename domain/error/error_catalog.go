package error

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeCredentialsInvalid    ErrorCode = "AUTH_1001"
	ErrCodePrincipalNotFound     ErrorCode = "AUTH_1002"
	ErrCodeTokenMalformed        ErrorCode = "AUTH_1003"
	ErrCodeTokenInvalidSignature ErrorCode = "AUTH_1004"
	ErrCodeTokenMissingSubject   ErrorCode = "AUTH_1005"
	ErrCodeTokenWrongType        ErrorCode = "AUTH_1006"
	ErrCodeTokenExpired          ErrorCode = "AUTH_1007"
	ErrCodeMissingBearerToken    ErrorCode = "AUTH_1008"

	// Validation Errors (2xxx)
	ErrCodeInvalidEmail      ErrorCode = "VALID_2001"
	ErrCodeInvalidPassword   ErrorCode = "VALID_2002"
	ErrCodeInvalidName       ErrorCode = "VALID_2003"
	ErrCodeInvalidRequest    ErrorCode = "VALID_2005"
	ErrCodeEmailAlreadyTaken ErrorCode = "VALID_2006"

	// Rate Limiting Errors (3xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_3001"
	ErrCodeIPBlocked         ErrorCode = "RATE_3002"

	// Resource Errors (4xxx)
	ErrCodeNotFound ErrorCode = "RES_4001"

	// Permission Errors (7xxx)
	ErrCodeForbidden ErrorCode = "PERM_7001"

	// Database Errors (5xxx)
	ErrCodeDatabaseError ErrorCode = "DB_5001"

	// Server Errors (6xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_6001"
	ErrCodeConfigurationError  ErrorCode = "SERVER_6003"
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on code, so a detailed or wrapped error still matches its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks. Never mutate them; use the constructors below
// to attach details or a cause.
var (
	ErrCredentialsInvalid    = NewAppError(ErrCodeCredentialsInvalid, "Incorrect email or password", "", nil)
	ErrPrincipalNotFound     = NewAppError(ErrCodePrincipalNotFound, "User not found", "", nil)
	ErrTokenMalformed        = NewAppError(ErrCodeTokenMalformed, "Malformed token", "", nil)
	ErrTokenInvalidSignature = NewAppError(ErrCodeTokenInvalidSignature, "Invalid token signature", "", nil)
	ErrTokenMissingSubject   = NewAppError(ErrCodeTokenMissingSubject, "Token missing subject", "", nil)
	ErrTokenWrongType        = NewAppError(ErrCodeTokenWrongType, "Wrong token type", "", nil)
	ErrTokenExpired          = NewAppError(ErrCodeTokenExpired, "Token has expired", "", nil)
	ErrMissingBearerToken    = NewAppError(ErrCodeMissingBearerToken, "Missing bearer token", "", nil)
	ErrEmailAlreadyTaken     = NewAppError(ErrCodeEmailAlreadyTaken, "Email already registered", "", nil)
	ErrNotFound              = NewAppError(ErrCodeNotFound, "Not found", "", nil)
	ErrForbidden             = NewAppError(ErrCodeForbidden, "Forbidden", "", nil)
	ErrRateLimitExceeded     = NewAppError(ErrCodeRateLimitExceeded, "Too many requests", "", nil)
)

// Authentication errors

func TokenMalformed(cause error) *AppError {
	return NewAppError(ErrCodeTokenMalformed, "Malformed token", "", cause)
}

func TokenInvalidSignature(cause error) *AppError {
	return NewAppError(ErrCodeTokenInvalidSignature, "Invalid token signature", "", cause)
}

func TokenWrongType(expected, got string) *AppError {
	return NewAppError(ErrCodeTokenWrongType, "Wrong token type", fmt.Sprintf("expected %q, got %q", expected, got), nil)
}

func TokenExpired(details string) *AppError {
	return NewAppError(ErrCodeTokenExpired, "Token has expired", details, nil)
}

func PrincipalNotFound(subject string) *AppError {
	return NewAppError(ErrCodePrincipalNotFound, "User not found", fmt.Sprintf("Subject: %s", subject), nil)
}

// Validation errors

func ErrInvalidEmail(email string) *AppError {
	return NewAppError(ErrCodeInvalidEmail, "Invalid email format", fmt.Sprintf("Email: %s", email), nil)
}

func ErrInvalidPassword(details string) *AppError {
	return NewAppError(ErrCodeInvalidPassword, "Invalid password", details, nil)
}

func ErrInvalidName(details string) *AppError {
	return NewAppError(ErrCodeInvalidName, "Invalid name", details, nil)
}

func ErrMissingField(field string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, "Missing required field", fmt.Sprintf("Field: %s", field), nil)
}

// Rate limiting errors

func ErrIPBlocked(ip string, duration string) *AppError {
	return NewAppError(ErrCodeIPBlocked, "IP address is blocked", fmt.Sprintf("IP: %s, Duration: %s", ip, duration), nil)
}

// Resource errors

func NotFound(resource, id string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), fmt.Sprintf("ID: %s", id), nil)
}

// Forbidden is for an authenticated caller touching another user's resource.
func Forbidden(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, "", nil)
}

// Database errors

func ErrDatabaseError(operation string, cause error) *AppError {
	return NewAppError(ErrCodeDatabaseError, "Database operation failed", fmt.Sprintf("Operation: %s", operation), cause)
}

// Server errors

func ErrInternalServerError(details string, cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, "Internal server error", details, cause)
}

func ErrConfigurationError(config string) *AppError {
	return NewAppError(ErrCodeConfigurationError, "Configuration error", fmt.Sprintf("Config: %s", config), nil)
}

// IsVerificationError reports whether err is one of the token verification failures
// that must collapse into a single outward "unauthenticated" signal.
func IsVerificationError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case ErrCodeTokenMalformed, ErrCodeTokenInvalidSignature, ErrCodeTokenMissingSubject,
		ErrCodeTokenWrongType, ErrCodeTokenExpired, ErrCodeMissingBearerToken:
		return true
	}
	return false
}

// Reason returns a short, stable label for metrics and logs.
func Reason(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "internal"
	}
	switch appErr.Code {
	case ErrCodeTokenMalformed:
		var inner *AppError
		if appErr.Cause != nil && errors.As(appErr.Cause, &inner) && inner.Code == ErrCodeTokenInvalidSignature {
			return "invalid_signature"
		}
		return "malformed"
	case ErrCodeTokenInvalidSignature:
		return "invalid_signature"
	case ErrCodeTokenMissingSubject:
		return "missing_subject"
	case ErrCodeTokenWrongType:
		return "wrong_token_type"
	case ErrCodeTokenExpired:
		return "expired"
	case ErrCodeMissingBearerToken:
		return "missing_bearer"
	case ErrCodePrincipalNotFound:
		return "principal_not_found"
	case ErrCodeCredentialsInvalid:
		return "credentials_invalid"
	}
	return strings.ToLower(string(appErr.Code))
}

// GetHTTPStatusCode maps an error to its HTTP status code
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	code := string(appErr.Code)
	switch {
	case strings.HasPrefix(code, "AUTH_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "VALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "RATE_"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "RES_"):
		return http.StatusNotFound
	case strings.HasPrefix(code, "PERM_"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "DB_"):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
