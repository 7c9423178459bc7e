package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared by every service. Test with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrPersistence  = errors.New("persistence error")
	ErrNotFound     = errors.New("not found")
)

// AppError carries an error kind, a caller-facing message and the optional cause.
type AppError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(msg string) error {
	return &AppError{Kind: ErrValidation, Msg: msg}
}

func Unauthorized(msg string) error {
	return &AppError{Kind: ErrUnauthorized, Msg: msg}
}

func NotFound(msg string) error {
	return &AppError{Kind: ErrNotFound, Msg: msg}
}

func Persistence(msg string, err error) error {
	return &AppError{Kind: ErrPersistence, Msg: msg, Err: err}
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides causes of internal errors from clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	return "internal server error"
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError writes {"error": msg} with the status matching err.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, HTTPStatus(err), map[string]string{"error": PublicMessage(err)})
}
