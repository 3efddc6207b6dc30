// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidQuery    = errors.New("invalid query")
	ErrAccountInactive = errors.New("account inactive")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenRevoked    = errors.New("token revoked")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is an error that already knows how it is rendered to clients.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Fields     []FieldError
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(fields []FieldError) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_FAILED",
		Fields:     fields,
	}
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
	)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func AccountInactiveError() *AppError {
	return NewAppError(
		ErrAccountInactive,
		"account is inactive",
		http.StatusForbidden,
		"ACCOUNT_INACTIVE",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE_"+strings.ToUpper(field),
	)
}

func ConflictError(message, code string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, code)
}

func InvalidQueryError(message string) *AppError {
	return NewAppError(
		ErrInvalidQuery,
		message,
		http.StatusBadRequest,
		"INVALID_QUERY",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"token is invalid",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"token has been revoked",
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
	)
}
