package travel

import (
	"context"
	"fmt"
	"time"

	"github.com/danpilch/niklo/internal/api/gmaps"
)

// GoogleProvider uses the Distance Matrix API and prefers traffic-aware
// durations.
type GoogleProvider struct {
	client *gmaps.Client
	now    func() time.Time
}

func NewGoogleProvider(apiKey string, timeout time.Duration, now func() time.Time) *GoogleProvider {
	return newGoogleProvider(gmaps.NewClient(apiKey, timeout), now)
}

func newGoogleProvider(client *gmaps.Client, now func() time.Time) *GoogleProvider {
	if now == nil {
		now = time.Now
	}
	return &GoogleProvider{client: client, now: now}
}

func (p *GoogleProvider) TravelTime(ctx context.Context, origin, destination string) (Result, error) {
	resp, err := p.client.DistanceMatrix(ctx, origin, destination, p.now())
	if err != nil {
		return Result{}, requestError(err)
	}

	if resp.Status != gmaps.StatusOK {
		reason := fmt.Sprintf("API Error: %s", resp.Status)
		if resp.ErrorMessage != "" {
			reason += " (" + resp.ErrorMessage + ")"
		}
		return Result{}, &Error{Reason: reason}
	}

	el, ok := resp.First()
	if !ok {
		return Result{}, &Error{Reason: "API Error: empty matrix"}
	}
	if el.Status != gmaps.StatusOK {
		return Result{}, &Error{Reason: fmt.Sprintf("Element status: %s", el.Status)}
	}

	dur := el.TravelDuration()
	if dur == nil || el.Distance == nil {
		return Result{}, &Error{Reason: "Element status: missing duration or distance"}
	}

	return Result{
		DurationSeconds: dur.Value,
		DurationText:    dur.Text,
		DistanceText:    el.Distance.Text,
	}, nil
}
