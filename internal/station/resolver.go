// Package station maps free-text addresses to the nearest served station.
package station

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danpilch/niklo/internal/timetable"
)

// Keyword maps a lower-case address fragment to a station.
type Keyword struct {
	Keyword string            `yaml:"keyword"`
	Station timetable.Station `yaml:"station"`
}

// DefaultKeywords is the Central Line lookup table. Order is priority: the
// first keyword contained in an address wins.
func DefaultKeywords() []Keyword {
	return []Keyword{
		{Keyword: "thane", Station: "Thane"},
		{Keyword: "mulund", Station: "Thane"},
		{Keyword: "airoli", Station: "Thane"},
		{Keyword: "dombivli", Station: "Dombivli"},
		{Keyword: "kalyan", Station: "Kalyan"},
		{Keyword: "ghatkopar", Station: "Ghatkopar"},
		{Keyword: "kurla", Station: "Kurla"},
		{Keyword: "dadar", Station: "Dadar"},
		{Keyword: "csmt", Station: "CSMT"},
		{Keyword: "fort", Station: "CSMT"},
		{Keyword: "vidyavihar", Station: "Vidyavihar"},
	}
}

// Resolver is a keyword heuristic, not a geocoder.
type Resolver struct {
	keywords []Keyword
	fallback timetable.Station
}

// NewResolver copies keywords in order. Every station named, including the
// fallback, must satisfy known.
func NewResolver(keywords []Keyword, fallback timetable.Station, known func(timetable.Station) bool) (*Resolver, error) {
	if fallback == "" {
		return nil, errors.New("station resolver: default station is required")
	}
	if known != nil && !known(fallback) {
		return nil, fmt.Errorf("station resolver: default: %w", &timetable.UnknownStationError{Station: fallback})
	}

	kw := make([]Keyword, 0, len(keywords))
	for _, k := range keywords {
		needle := strings.ToLower(strings.TrimSpace(k.Keyword))
		if needle == "" {
			return nil, errors.New("station resolver: empty keyword")
		}
		if known != nil && !known(k.Station) {
			return nil, fmt.Errorf("station resolver: keyword %q: %w", k.Keyword, &timetable.UnknownStationError{Station: k.Station})
		}
		kw = append(kw, Keyword{Keyword: needle, Station: k.Station})
	}

	return &Resolver{keywords: kw, fallback: fallback}, nil
}

// Nearest returns the station of the first keyword contained in address,
// case-insensitively, or the default station. It never fails.
func (r *Resolver) Nearest(address string) timetable.Station {
	addr := strings.ToLower(address)
	for _, k := range r.keywords {
		if strings.Contains(addr, k.Keyword) {
			return k.Station
		}
	}
	return r.fallback
}

// Default is the station returned when nothing matches.
func (r *Resolver) Default() timetable.Station {
	return r.fallback
}
