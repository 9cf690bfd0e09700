package timetable

import (
	"errors"
	"fmt"
	"time"
)

// Station is a stop name from the line's ordered catalog.
type Station string

type TrainType string

const (
	Fast TrainType = "fast"
	Slow TrainType = "slow"
)

// Direction is relative to catalog order: up runs from the first station
// towards the last, down runs back.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ErrNotServed is returned when a train does not stop at a station.
var ErrNotServed = errors.New("station not served by train")

// UnknownStationError reports a station that is not part of the catalog.
type UnknownStationError struct {
	Station Station
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown station %q", string(e.Station))
}

// Train is one generated service. It is immutable once generated.
type Train struct {
	ID        string
	Type      TrainType
	Direction Direction
	Origin    Station
	stops     map[Station]time.Time
}

// At returns the time the train calls at station.
func (t *Train) At(station Station) (time.Time, error) {
	at, ok := t.stops[station]
	if !ok {
		return time.Time{}, fmt.Errorf("train %s at %s: %w", t.ID, station, ErrNotServed)
	}
	return at, nil
}

// Serves reports whether the train calls at station.
func (t *Train) Serves(station Station) bool {
	_, ok := t.stops[station]
	return ok
}

// Departure is a feasible train between two stations.
type Departure struct {
	TrainID      string    `json:"train_id"`
	Type         TrainType `json:"type"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	DurationMins int       `json:"duration_mins"`
}
