package timetable

import (
	"iter"
	"sort"
	"time"
)

// Direction derives the direction of travel from catalog order.
func (tt *Timetable) Direction(source, destination Station) (Direction, error) {
	si, ok := tt.position[source]
	if !ok {
		return "", &UnknownStationError{Station: source}
	}
	di, ok := tt.position[destination]
	if !ok {
		return "", &UnknownStationError{Station: destination}
	}
	if di > si {
		return Up, nil
	}
	return Down, nil
}

// Departures yields trains calling at source and then destination, leaving
// source at or after after, in ascending departure order. The sequence is
// lazy and can be ranged over any number of times.
func (tt *Timetable) Departures(source, destination Station, after time.Time) (iter.Seq[Departure], error) {
	dir, err := tt.Direction(source, destination)
	if err != nil {
		return nil, err
	}

	if source == destination {
		return func(yield func(Departure) bool) {}, nil
	}

	calling := tt.byStation[dir][source]
	start := sort.Search(len(calling), func(i int) bool {
		return !calling[i].stops[source].Before(after)
	})

	return func(yield func(Departure) bool) {
		for _, t := range calling[start:] {
			arr, ok := t.stops[destination]
			if !ok {
				continue
			}
			dep := t.stops[source]
			d := Departure{
				TrainID:      t.ID,
				Type:         t.Type,
				Departure:    dep,
				Arrival:      arr,
				DurationMins: int(arr.Sub(dep) / time.Minute),
			}
			if !yield(d) {
				return
			}
		}
	}, nil
}

// FindTrains collects at most limit departures from source to destination
// leaving at or after after. A limit of zero or less means no limit.
func (tt *Timetable) FindTrains(source, destination Station, after time.Time, limit int) ([]Departure, error) {
	seq, err := tt.Departures(source, destination, after)
	if err != nil {
		return nil, err
	}

	out := []Departure{}
	for d := range seq {
		out = append(out, d)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
