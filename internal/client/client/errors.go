package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable      = errors.New("server unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrNoSession        = errors.New("not logged in")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// AuthError is returned by Login when the service rejects the credentials.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "login failed"
	}
	return e.Message
}

// NetworkError describes a failed request to the review service.
// Err is one of the sentinel errors above or the transport error.
type NetworkError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *NetworkError) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

const defaultDownloadMessage = "Download failed"

// DownloadError is returned when a category export is refused.
type DownloadError struct {
	Status int
	Detail string
}

func (e *DownloadError) Error() string {
	if e.Detail == "" {
		return defaultDownloadMessage
	}
	return e.Detail
}

// mapStatus turns an HTTP status into one of the sentinel errors.
func mapStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status >= 500:
		return ErrUnavailable
	default:
		return ErrUnexpectedStatus
	}
}
