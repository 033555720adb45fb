package coupang

import (
	"errors"
	"fmt"
)

// ErrInvalidCategory is wrapped by category parsing and validation failures.
var ErrInvalidCategory = errors.New("invalid category")

// ConfigError reports missing configuration that prevents signing.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("coupang: missing required configuration: %s", e.Field)
}

// UpstreamHTTPError reports a non-2xx upstream response.
type UpstreamHTTPError struct {
	Resource string
	Status   int
	Body     []byte
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("coupang %s returned %d", e.Resource, e.Status)
}

// NetworkError reports an upstream call that never completed.
type NetworkError struct {
	Resource string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("coupang %s request failed: %v", e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ShapeError reports a 2xx response without a {"data": [...]} envelope.
type ShapeError struct {
	Resource string
	Reason   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("coupang %s: unexpected response shape: %s", e.Resource, e.Reason)
}

// DeeplinkError reports a failed conversion batch. Callers fall back to original URLs.
type DeeplinkError struct {
	URLs int
	Err  error
}

func (e *DeeplinkError) Error() string {
	return fmt.Sprintf("coupang deeplink conversion of %d urls failed: %v", e.URLs, e.Err)
}

func (e *DeeplinkError) Unwrap() error {
	return e.Err
}

// failureReason gives the short, client-safe description stored on failed results.
func failureReason(err error) string {
	var httpErr *UpstreamHTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("upstream returned %d", httpErr.Status)
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "upstream unreachable"
	}
	return err.Error()
}
