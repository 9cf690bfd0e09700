package planner

import "errors"

var (
	ErrEmptyOrigin    = errors.New("origin is required")
	ErrNegativeBuffer = errors.New("delay buffer must not be negative")
)

// TravelProviderError means the direct road lookup failed, so no plan can be
// made.
type TravelProviderError struct {
	Err error
}

func (e *TravelProviderError) Error() string {
	return "Traffic API error: " + e.Err.Error()
}

func (e *TravelProviderError) Unwrap() error {
	return e.Err
}
