package timetable

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/danpilch/niklo/internal/clock"
)

// Timetable is the full schedule for one service day. It is never mutated
// after Generate returns and is safe for concurrent readers.
type Timetable struct {
	day      time.Time
	stations []Station
	position map[Station]int
	trains   map[Direction][]*Train

	// byStation holds, per direction and station, the trains calling there
	// ordered by their time at that station.
	byStation map[Direction]map[Station][]*Train
}

// Generate builds the timetable for the calendar date of day. Times are
// anchored to midnight of that date in day's location, so the result depends
// only on the date and never on when it is called.
func Generate(cfg Config, day time.Time) (*Timetable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timetable config: %w", err)
	}

	tt := &Timetable{
		day:       clock.Midnight(day),
		stations:  slices.Clone(cfg.Stations),
		position:  make(map[Station]int, len(cfg.Stations)),
		trains:    make(map[Direction][]*Train, 2),
		byStation: make(map[Direction]map[Station][]*Train, 2),
	}
	for i, s := range tt.stations {
		tt.position[s] = i
	}

	for _, dir := range []Direction{Up, Down} {
		tt.trains[dir] = tt.generateDirection(cfg, dir)
		tt.byStation[dir] = tt.indexByStation(tt.trains[dir])
	}

	return tt, nil
}

func (tt *Timetable) generateDirection(cfg Config, dir Direction) []*Train {
	offsets := make([]map[Station]int, len(cfg.Patterns))
	origins := make([]Station, len(cfg.Patterns))
	for i, p := range cfg.Patterns {
		offsets[i], origins[i] = tt.directionalOffsets(p, dir)
	}

	base := cfg.Start.On(tt.day)
	end := base.Add(cfg.Span)

	var trains []*Train
	for n, departs := 0, base; departs.Before(end); n, departs = n+1, departs.Add(cfg.Cadence) {
		i := n % len(cfg.Patterns)
		p := cfg.Patterns[i]

		stops := make(map[Station]time.Time, len(offsets[i]))
		for s, mins := range offsets[i] {
			stops[s] = departs.Add(time.Duration(mins) * time.Minute)
		}

		trains = append(trains, &Train{
			ID:        trainID(p.Type, dir, departs),
			Type:      p.Type,
			Direction: dir,
			Origin:    origins[i],
			stops:     stops,
		})
	}

	return trains
}

// directionalOffsets returns the pattern's offsets measured from its first
// stop in the direction of travel. Down offsets mirror the up table against
// the terminus total.
func (tt *Timetable) directionalOffsets(p Pattern, dir Direction) (map[Station]int, Station) {
	var first, last Station
	for _, s := range tt.stations {
		if _, ok := p.Offsets[s]; !ok {
			continue
		}
		if first == "" {
			first = s
		}
		last = s
	}

	if dir == Up {
		start := p.Offsets[first]
		out := make(map[Station]int, len(p.Offsets))
		for s, off := range p.Offsets {
			out[s] = off - start
		}
		return out, first
	}

	total := p.Offsets[last]
	out := make(map[Station]int, len(p.Offsets))
	for s, off := range p.Offsets {
		out[s] = total - off
	}
	return out, last
}

func (tt *Timetable) indexByStation(trains []*Train) map[Station][]*Train {
	idx := make(map[Station][]*Train, len(tt.stations))
	for _, s := range tt.stations {
		var calling []*Train
		for _, t := range trains {
			if t.Serves(s) {
				calling = append(calling, t)
			}
		}
		slices.SortStableFunc(calling, func(a, b *Train) int {
			if c := a.stops[s].Compare(b.stops[s]); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		idx[s] = calling
	}
	return idx
}

// trainID is <type initial><direction initial><origin departure HHMM>, e.g. FU0400.
func trainID(t TrainType, dir Direction, departs time.Time) string {
	typ := "X"
	if t != "" {
		typ = strings.ToUpper(string(t)[:1])
	}
	d := "U"
	if dir == Down {
		d = "D"
	}
	return typ + d + departs.Format("1504")
}

// Day is midnight of the service day this timetable was generated for.
func (tt *Timetable) Day() time.Time {
	return tt.day
}

// Stations returns the catalog in line order.
func (tt *Timetable) Stations() []Station {
	return slices.Clone(tt.stations)
}

// Trains returns every train running in dir, in origin departure order.
func (tt *Timetable) Trains(dir Direction) []*Train {
	return slices.Clone(tt.trains[dir])
}

// Has reports whether station is in the catalog.
func (tt *Timetable) Has(station Station) bool {
	_, ok := tt.position[station]
	return ok
}
