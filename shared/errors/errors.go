package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

const (
	msgNotFound          = "resource not found"
	msgIncorrectPassword = "incorrect password"
)

func NotFound() error {
	return &ErrorWithStatusCode{Message: msgNotFound, StatusCode: http.StatusNotFound}
}

func IncorrectPassword() error {
	return &ErrorWithStatusCode{Message: msgIncorrectPassword, StatusCode: http.StatusForbidden}
}

// Validation marks missing or invalid caller input. Nothing is persisted when it is returned.
func Validation(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// DuplicateKey is returned by storage when a uniqueness constraint rejects an insert.
func DuplicateKey(message string) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

func hasStatus(err error, code int) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == code
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsIncorrectPassword(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func IsValidation(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

func IsDuplicateKey(err error) bool {
	return hasStatus(err, http.StatusConflict)
}
