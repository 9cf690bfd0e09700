// Package travel resolves road travel times between free-text locations.
package travel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Result is a single road trip estimate.
type Result struct {
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
	DistanceText    string `json:"distance_text"`
}

// Duration returns the trip length as a time.Duration.
func (r Result) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// Provider returns the road travel time between two locations. Locations may
// be free-text addresses or known station names. Failures are *Error.
type Provider interface {
	TravelTime(ctx context.Context, origin, destination string) (Result, error)
}

// Error is a failed travel time lookup.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// requestError classifies a transport failure, reporting timeouts as such.
func requestError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Reason: "request timed out", Err: err}
	}
	return &Error{Reason: "request failed", Err: err}
}

// Kind names a Provider implementation.
type Kind string

const (
	KindGoogle    Kind = "google"
	KindORS       Kind = "ors"
	KindSimulated Kind = "simulated"
)

// Options configures New.
type Options struct {
	Kind         Kind
	GoogleAPIKey string
	ORSAPIKey    string
	Timeout      time.Duration
	Places       []Place
	Country      string
	AverageKmh   float64
	RoadFactor   float64
	Now          func() time.Time
}

// New builds the configured provider.
func New(opts Options) (Provider, error) {
	places, err := NewPlaces(opts.Places)
	if err != nil {
		return nil, err
	}

	switch opts.Kind {
	case KindGoogle:
		if opts.GoogleAPIKey == "" {
			return nil, errors.New("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
		return NewGoogleProvider(opts.GoogleAPIKey, opts.Timeout, opts.Now), nil
	case KindORS:
		if opts.ORSAPIKey == "" {
			return nil, errors.New("ORS_API_KEY is required for the ors provider")
		}
		return NewORSProvider(opts.ORSAPIKey, opts.Timeout, places, opts.Country), nil
	case KindSimulated, "":
		return NewSimulatedProvider(places, opts.AverageKmh, opts.RoadFactor), nil
	default:
		return nil, fmt.Errorf("unknown travel provider %q", opts.Kind)
	}
}
