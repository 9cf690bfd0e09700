package travel

import (
	"context"
	"fmt"
	"math"
)

const (
	defaultAverageKmh = 22.0
	defaultRoadFactor = 1.35
)

// SimulatedProvider estimates road trips offline from the coordinate table:
// straight-line distance stretched by a road factor, driven at an average
// city speed.
type SimulatedProvider struct {
	places     *Places
	averageKmh float64
	roadFactor float64
}

func NewSimulatedProvider(places *Places, averageKmh, roadFactor float64) *SimulatedProvider {
	if averageKmh <= 0 {
		averageKmh = defaultAverageKmh
	}
	if roadFactor < 1 {
		roadFactor = defaultRoadFactor
	}
	return &SimulatedProvider{places: places, averageKmh: averageKmh, roadFactor: roadFactor}
}

func (p *SimulatedProvider) TravelTime(ctx context.Context, origin, destination string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, requestError(err)
	}

	from, ok := p.places.Lookup(origin)
	if !ok {
		return Result{}, &Error{Reason: fmt.Sprintf("unknown location %q", origin)}
	}
	to, ok := p.places.Lookup(destination)
	if !ok {
		return Result{}, &Error{Reason: fmt.Sprintf("unknown location %q", destination)}
	}

	km := distanceKm(from, to) * p.roadFactor
	seconds := int(math.Round(km / p.averageKmh * 3600))

	return Result{
		DurationSeconds: seconds,
		DurationText:    durationText(seconds),
		DistanceText:    distanceText(km * 1000),
	}, nil
}
