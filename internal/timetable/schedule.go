package timetable

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/danpilch/niklo/internal/clock"
)

// Schedule hands out the timetable for a given calendar date, regenerating it
// when the date changes. Readers never lock: a new day's timetable is built
// aside and swapped in atomically.
type Schedule struct {
	cfg     Config
	current atomic.Pointer[Timetable]
}

func NewSchedule(cfg Config) (*Schedule, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timetable config: %w", err)
	}
	return &Schedule{cfg: cfg}, nil
}

// For returns the timetable for the calendar date of day.
func (s *Schedule) For(day time.Time) (*Timetable, error) {
	midnight := clock.Midnight(day)
	if tt := s.current.Load(); tt != nil && tt.day.Equal(midnight) {
		return tt, nil
	}

	tt, err := Generate(s.cfg, midnight)
	if err != nil {
		return nil, err
	}
	s.current.Store(tt)
	return tt, nil
}
