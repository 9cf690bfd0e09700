// Package planner compares a direct drive with a road, train and walk
// itinerary for a fixed destination and arrival time.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/station"
	"github.com/danpilch/niklo/internal/timetable"
	"github.com/danpilch/niklo/internal/travel"
)

type Config struct {
	// Destination is the address handed to the travel provider.
	Destination string
	// DestinationName labels the walking leg, e.g. "KJSCE".
	DestinationName    string
	DestinationStation timetable.Station
	WalkMinutes        int
	// FallbackLegMinutes replaces a failed home to station lookup.
	FallbackLegMinutes int
	// StationAddress is a format string turning a station into an address.
	StationAddress string
	SearchFloor    clock.Clock
	SearchLimit    int
	Location       *time.Location
}

func DefaultConfig() Config {
	return Config{
		Destination:        "KJSCE, Vidyavihar West, Mumbai, Maharashtra",
		DestinationName:    "KJSCE",
		DestinationStation: "Vidyavihar",
		WalkMinutes:        10,
		FallbackLegMinutes: 15,
		StationAddress:     "%s Railway Station, Mumbai",
		SearchFloor:        clock.Clock{Hour: 4},
		SearchLimit:        500,
		Location:           time.Local,
	}
}

type Planner struct {
	cfg      Config
	provider travel.Provider
	stations *station.Resolver
	schedule *timetable.Schedule
	logger   *logrus.Logger
	now      func() time.Time
}

func New(cfg Config, provider travel.Provider, stations *station.Resolver, schedule *timetable.Schedule, logger *logrus.Logger) *Planner {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Planner{
		cfg:      cfg,
		provider: provider,
		stations: stations,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the source of "today".
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	return p
}

// Plan computes both itineraries for reaching the destination at arrival
// today. Only a failed direct lookup is fatal; a failed home to station
// lookup falls back to a fixed estimate and a missing train drops the hybrid
// itinerary.
func (p *Planner) Plan(ctx context.Context, origin string, arrival clock.Clock, bufferMins int) (*CommutePlan, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return nil, ErrEmptyOrigin
	}
	if bufferMins < 0 {
		return nil, ErrNegativeBuffer
	}

	deadline := arrival.On(p.now().In(p.cfg.Location))
	boarding := p.stations.Nearest(origin)
	wantHybrid := boarding != p.cfg.DestinationStation

	var (
		direct, leg1       travel.Result
		directErr, leg1Err error
		wg                 conc.WaitGroup
	)
	wg.Go(func() {
		direct, directErr = p.provider.TravelTime(ctx, origin, p.cfg.Destination)
	})
	if wantHybrid {
		wg.Go(func() {
			leg1, leg1Err = p.provider.TravelTime(ctx, origin, p.StationAddress(boarding))
		})
	}
	wg.Wait()

	if directErr != nil {
		p.logger.WithFields(logrus.Fields{
			"origin": origin,
			"error":  directErr,
		}).Error("direct road lookup failed")
		return nil, &TravelProviderError{Err: directErr}
	}

	plan := &CommutePlan{
		Arrival:        deadline,
		RoadRoute:      p.roadItinerary(deadline, direct),
		Recommendation: RecommendRoad,
	}

	if wantHybrid {
		leg1Dur := leg1.Duration()
		if leg1Err != nil {
			leg1Dur = time.Duration(p.cfg.FallbackLegMinutes) * time.Minute
			p.logger.WithFields(logrus.Fields{
				"origin":   origin,
				"station":  boarding,
				"fallback": leg1Dur,
				"error":    leg1Err,
			}).Warn("home to station lookup failed, using fallback")
		}
		plan.TrainRoute = p.hybridItinerary(deadline, boarding, leg1Dur, bufferMins)
	}

	if plan.TrainRoute != nil && plan.TrainRoute.TotalDurationMins < plan.RoadRoute.TotalDurationMins {
		plan.Recommendation = RecommendTrain
	}

	fields := logrus.Fields{
		"origin":         origin,
		"arrival":        arrival.String(),
		"road_leave_at":  clock.Format(plan.RoadRoute.LeaveAt),
		"recommendation": plan.Recommendation,
	}
	if plan.TrainRoute != nil {
		fields["train"] = plan.TrainRoute.Details.Train.TrainID
		fields["train_leave_at"] = clock.Format(plan.TrainRoute.LeaveAt)
	}
	p.logger.WithFields(fields).Info("commute planned")

	return plan, nil
}

// StationAddress is the address used to look up the drive to a station.
func (p *Planner) StationAddress(s timetable.Station) string {
	return fmt.Sprintf(p.cfg.StationAddress, s)
}

func (p *Planner) roadItinerary(deadline time.Time, r travel.Result) Itinerary {
	d := r.Duration()
	return Itinerary{
		Mode:              RoadOnly,
		LeaveAt:           deadline.Add(-d),
		TotalDurationMins: int(d / time.Minute),
		Details: Details{
			Summary:  fmt.Sprintf("Drive directly (%s)", r.DistanceText),
			Duration: r.DurationText,
		},
	}
}

func (p *Planner) hybridItinerary(deadline time.Time, boarding timetable.Station, leg1 time.Duration, bufferMins int) *Itinerary {
	walk := time.Duration(p.cfg.WalkMinutes) * time.Minute
	trainDeadline := deadline.Add(-walk)

	train, ok, err := p.latestTrain(deadline, boarding, trainDeadline, bufferMins)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"station": boarding,
			"error":   err,
		}).Error("timetable search failed")
		return nil
	}
	if !ok {
		p.logger.WithFields(logrus.Fields{
			"station":  boarding,
			"deadline": clock.Format(trainDeadline),
			"buffer":   bufferMins,
		}).Debug("no feasible train")
		return nil
	}

	homeDepart := train.Departure.Add(-leg1)
	return &Itinerary{
		Mode:              Hybrid,
		LeaveAt:           homeDepart,
		TotalDurationMins: int(deadline.Sub(homeDepart) / time.Minute),
		DelayBufferMins:   bufferMins,
		Details: Details{
			Leg1Road:  fmt.Sprintf("Home → %s Station (%d mins)", boarding, int(leg1/time.Minute)),
			Leg2Train: p.describeTrain(boarding, train, bufferMins),
			Leg3Walk:  fmt.Sprintf("%s Station → %s gate (%d mins)", p.cfg.DestinationStation, p.cfg.DestinationName, p.cfg.WalkMinutes),
			Station:   boarding,
			Train:     &train,
		},
	}
}

// latestTrain scans departures from the search floor on day and keeps the
// last train whose buffered arrival meets trainDeadline. Faster services
// overtake slower ones, so a late arrival does not rule out the trains after
// it; the scan ends once departures themselves pass the deadline.
func (p *Planner) latestTrain(day time.Time, boarding timetable.Station, trainDeadline time.Time, bufferMins int) (timetable.Departure, bool, error) {
	tt, err := p.schedule.For(day)
	if err != nil {
		return timetable.Departure{}, false, err
	}

	seq, err := tt.Departures(boarding, p.cfg.DestinationStation, p.cfg.SearchFloor.On(tt.Day()))
	if err != nil {
		return timetable.Departure{}, false, err
	}

	buffer := time.Duration(bufferMins) * time.Minute
	var (
		best    timetable.Departure
		found   bool
		scanned int
	)
	for d := range seq {
		if d.Departure.After(trainDeadline) {
			break
		}
		scanned++
		if p.cfg.SearchLimit > 0 && scanned > p.cfg.SearchLimit {
			break
		}
		if !d.Arrival.Add(buffer).After(trainDeadline) {
			best, found = d, true
		}
	}
	return best, found, nil
}

func (p *Planner) describeTrain(boarding timetable.Station, d timetable.Departure, bufferMins int) string {
	s := fmt.Sprintf("%s train %s → %s (%s – %s)",
		titleCase(string(d.Type)), boarding, p.cfg.DestinationStation,
		clock.Format(d.Departure), clock.Format(d.Arrival))
	if bufferMins > 0 {
		s += fmt.Sprintf(" + %d min delay buffer", bufferMins)
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
