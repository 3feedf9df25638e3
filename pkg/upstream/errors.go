package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotFound is returned when the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized is returned when the API rejects the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrRejected is returned when the API reports a failure payload
	ErrRejected = errors.New("request rejected by commerce API")
)

// APIError carries the error payload of a non-2xx response
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce API error: status=%d, message=%s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return ErrRejected
}
