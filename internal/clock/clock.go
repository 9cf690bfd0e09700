// Package clock handles wall-clock times of day ("HH:MM") and anchors them to
// calendar dates.
package clock

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned for anything that is not a 24-hour HH:MM time.
var ErrInvalidTimeFormat = errors.New("time must be HH:MM format")

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// Parse parses a 24-hour clock time such as "09:00" or "9:00".
func Parse(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustParse is Parse for package-level defaults. It panics on malformed input.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Of returns the clock time of t in t's location.
func Of(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// SinceMidnight is the offset of c from the start of the day.
func (c Clock) SinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// On anchors c to the calendar date of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Format renders t as HH:MM.
func Format(t time.Time) string {
	return t.Format("15:04")
}
