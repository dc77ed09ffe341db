package domain

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned when annotation is requested without a configured provider.
var ErrNoProvider = errors.New("no colour provider configured")

// FetchErrorKind distinguishes transport failures from bad HTTP statuses.
type FetchErrorKind int

const (
	FetchNetwork FetchErrorKind = iota
	FetchBadStatus
)

// FetchError is terminal for a pipeline run.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Err    error
}

// NetworkError wraps a transport or parse failure.
func NetworkError(err error) *FetchError {
	return &FetchError{Kind: FetchNetwork, Err: err}
}

// BadStatusError records a non-success HTTP status.
func BadStatusError(code int) *FetchError {
	return &FetchError{Kind: FetchBadStatus, Status: code}
}

func (e *FetchError) Error() string {
	if e.Kind == FetchBadStatus {
		return fmt.Sprintf("feed returned status %d", e.Status)
	}
	if e.Err == nil {
		return "feed request failed"
	}
	return fmt.Sprintf("feed request failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
