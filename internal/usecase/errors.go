package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrUpstreamMalformed    = errors.New("upstream payload malformed")
	ErrConfigurationMissing = errors.New("configuration missing")
)

// UpstreamError describes a failed call to one of the data providers with
// enough context to debug it from a log line: which provider, which URL,
// what it answered. BodyPreview is capped by the client at 800 bytes.
type UpstreamError struct {
	Source       string
	RequestedURL string
	StatusCode   int
	BodyPreview  string
	Kind         error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %v: status=%d body=%s", e.Source, e.Kind, e.StatusCode, e.BodyPreview)
	}
	if e.BodyPreview != "" {
		return fmt.Sprintf("%s: %v: %s", e.Source, e.Kind, e.BodyPreview)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Kind)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}
