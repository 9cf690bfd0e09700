package travel

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/danpilch/niklo/internal/api/ors"
)

const orsProfile = "driving-car"

// ORSProvider uses OpenRouteService directions. Locations are resolved from
// the coordinate table first and by ORS geocoding otherwise.
type ORSProvider struct {
	client  *ors.Client
	places  *Places
	country string
}

func NewORSProvider(apiKey string, timeout time.Duration, places *Places, country string) *ORSProvider {
	return newORSProvider(ors.NewClient(apiKey, timeout), places, country)
}

func newORSProvider(client *ors.Client, places *Places, country string) *ORSProvider {
	return &ORSProvider{client: client, places: places, country: country}
}

func (p *ORSProvider) TravelTime(ctx context.Context, origin, destination string) (Result, error) {
	from, err := p.resolve(ctx, origin)
	if err != nil {
		return Result{}, err
	}
	to, err := p.resolve(ctx, destination)
	if err != nil {
		return Result{}, err
	}

	resp, err := p.client.Directions(ctx, orsProfile, from, to)
	if err != nil {
		return Result{}, requestError(err)
	}
	if len(resp.Features) == 0 {
		return Result{}, &Error{Reason: fmt.Sprintf("no route between %q and %q", origin, destination)}
	}

	s := resp.Features[0].Properties.Summary
	seconds := int(math.Round(s.Duration))
	return Result{
		DurationSeconds: seconds,
		DurationText:    durationText(seconds),
		DistanceText:    distanceText(s.Distance),
	}, nil
}

func (p *ORSProvider) resolve(ctx context.Context, location string) (ors.Point, error) {
	if pl, ok := p.places.Lookup(location); ok {
		return ors.Point{Lon: pl.Lon, Lat: pl.Lat}, nil
	}

	text := strings.Join(strings.Fields(location), " ")
	if text == "" {
		return ors.Point{}, &Error{Reason: "location must be non-empty"}
	}

	resp, err := p.client.Geocode(ctx, text, p.country)
	if err != nil {
		return ors.Point{}, requestError(err)
	}
	if len(resp.Features) == 0 {
		return ors.Point{}, &Error{Reason: fmt.Sprintf("no geocode results for %q", location)}
	}

	coords := resp.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return ors.Point{}, &Error{Reason: fmt.Sprintf("invalid coordinate format for %q", location)}
	}
	return ors.Point{Lon: coords[0], Lat: coords[1]}, nil
}
