package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidParameter is the single failure kind of the inference core:
	// non-positive sizes, non-positive standard deviations, alpha outside (0,1), ...
	ErrInvalidParameter = errors.New("invalid parameter")

	ErrNotFound         = errors.New("resource not found")
	ErrScenarioNotFound = fmt.Errorf("%w: scenario", ErrNotFound)
	ErrColumnNotFound   = fmt.Errorf("%w: column", ErrNotFound)

	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNoDataSource     = errors.New("no data source configured")
)

// NewInvalidParameterError reports which parameter was rejected and why
func NewInvalidParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, field, reason)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, id)
}

// Error checking helpers
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
