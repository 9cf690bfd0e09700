package timetable

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/danpilch/niklo/internal/clock"
)

// Pattern is a stopping pattern. Offsets are minutes from the first catalog
// station in the up direction; stations the pattern skips are omitted.
type Pattern struct {
	Type    TrainType       `yaml:"type"`
	Offsets map[Station]int `yaml:"offsets"`
}

// Config describes the line and the operating day.
type Config struct {
	Stations []Station     `yaml:"stations"`
	Patterns []Pattern     `yaml:"patterns"`
	Start    clock.Clock   `yaml:"start"`
	Span     time.Duration `yaml:"span"`
	Cadence  time.Duration `yaml:"cadence"`
}

// DefaultConfig is the Mumbai Central Line between CSMT and Kalyan.
func DefaultConfig() Config {
	return Config{
		Stations: []Station{"CSMT", "Dadar", "Kurla", "Ghatkopar", "Vidyavihar", "Thane", "Dombivli", "Kalyan"},
		Patterns: []Pattern{
			{
				Type: Fast,
				Offsets: map[Station]int{
					"CSMT": 0, "Dadar": 10, "Kurla": 18, "Ghatkopar": 24,
					"Vidyavihar": 27, "Thane": 40, "Dombivli": 55, "Kalyan": 65,
				},
			},
			{
				Type: Slow,
				Offsets: map[Station]int{
					"CSMT": 0, "Dadar": 14, "Kurla": 22, "Ghatkopar": 30,
					"Vidyavihar": 33, "Thane": 55, "Dombivli": 68, "Kalyan": 80,
				},
			},
		},
		Start:   clock.Clock{Hour: 4},
		Span:    20 * time.Hour,
		Cadence: 5 * time.Minute,
	}
}

// Has reports whether s is in the station catalog.
func (c Config) Has(s Station) bool {
	return slices.Contains(c.Stations, s)
}

func (c Config) Validate() error {
	if len(c.Stations) < 2 {
		return errors.New("at least two stations are required")
	}

	index := make(map[Station]int, len(c.Stations))
	for i, s := range c.Stations {
		if s == "" {
			return fmt.Errorf("station %d: name is empty", i)
		}
		if _, dup := index[s]; dup {
			return fmt.Errorf("station %q listed twice", s)
		}
		index[s] = i
	}

	if len(c.Patterns) == 0 {
		return errors.New("at least one pattern is required")
	}

	for _, p := range c.Patterns {
		if p.Type == "" {
			return errors.New("pattern type is required")
		}
		if len(p.Offsets) < 2 {
			return fmt.Errorf("pattern %s: must stop at two or more stations", p.Type)
		}
		for s := range p.Offsets {
			if _, ok := index[s]; !ok {
				return fmt.Errorf("pattern %s: %w", p.Type, &UnknownStationError{Station: s})
			}
		}

		prev, seen := 0, false
		for _, s := range c.Stations {
			off, ok := p.Offsets[s]
			if !ok {
				continue
			}
			if seen && off <= prev {
				return fmt.Errorf("pattern %s: offset for %s (%d) must be greater than %d", p.Type, s, off, prev)
			}
			prev, seen = off, true
		}
	}

	if c.Span <= 0 {
		return errors.New("span must be positive")
	}
	if c.Cadence <= 0 {
		return errors.New("cadence must be positive")
	}

	return nil
}
