package api

import (
	"context"
	"errors"
	"fmt"
)

// maxErrorBody limits how much of an error response is kept
const maxErrorBody = 512

// Category classifies why a request failed
type Category string

const (
	CategoryNetwork   Category = "network"
	CategoryStatus    Category = "status"
	CategoryMalformed Category = "malformed"
	CategoryCanceled  Category = "canceled"
	CategoryUnknown   Category = "unknown"
)

// NetworkError is returned when the request never produced a response
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Category returns CategoryCanceled when the caller's context ended the
// request and CategoryNetwork otherwise
func (e *NetworkError) Category() Category {
	if errors.Is(e.Err, context.Canceled) {
		return CategoryCanceled
	}
	return CategoryNetwork
}

// StatusError is returned for any non-2xx response
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: API error (status %d)", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: API error (status %d): %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *StatusError) Category() Category { return CategoryStatus }

// DecodeError is returned when the body is not the expected JSON or breaks
// an invariant of the payload
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to decode response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Category() Category { return CategoryMalformed }

// CategoryOf reports the category of err. Context cancellation that did not
// pass through the client is also reported as CategoryCanceled.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var categorized interface{ Category() Category }
	if errors.As(err, &categorized) {
		return categorized.Category()
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}
	return CategoryUnknown
}
