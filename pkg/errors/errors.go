package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrDuplicate
	ErrNotFound
	ErrInvalidCredentials
	ErrInvalidToken
	ErrExpiredToken
	ErrForbidden
	ErrInternal
)

// AppError represents an application error with an HTTP-mappable code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// HTTPStatus maps the error code to a response status. Wrapped internals
// never reach the client.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrValidation, ErrDuplicate, ErrNotFound, ErrInvalidCredentials:
		return http.StatusBadRequest
	case ErrInvalidToken, ErrExpiredToken:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// As unwraps err into an *AppError if possible.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func Duplicate(message string) *AppError {
	return &AppError{Code: ErrDuplicate, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

func InvalidCredentials(message string) *AppError {
	return &AppError{Code: ErrInvalidCredentials, Message: message}
}

func InvalidToken(err error) *AppError {
	return &AppError{Code: ErrInvalidToken, Message: "invalid token", Err: err}
}

func ExpiredToken(err error) *AppError {
	return &AppError{Code: ErrExpiredToken, Message: "token expired", Err: err}
}

func Forbidden(message string) *AppError {
	return &AppError{Code: ErrForbidden, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}
