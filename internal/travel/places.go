package travel

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Place is a known location. A free-text location matches the place when it
// contains Match, case-insensitively.
type Place struct {
	Match string  `yaml:"match"`
	Lat   float64 `yaml:"lat"`
	Lon   float64 `yaml:"lon"`
}

// DefaultPlaces covers the Central Line stations, the campus and a few
// neighbourhoods. More specific matches come first.
func DefaultPlaces() []Place {
	return []Place{
		{Match: "kjsce", Lat: 19.0728, Lon: 72.9000},
		{Match: "vidyavihar", Lat: 19.0790, Lon: 72.8970},
		{Match: "csmt", Lat: 18.9398, Lon: 72.8355},
		{Match: "fort", Lat: 18.9345, Lon: 72.8347},
		{Match: "churchgate", Lat: 18.9322, Lon: 72.8264},
		{Match: "dadar", Lat: 19.0186, Lon: 72.8424},
		{Match: "kurla", Lat: 19.0655, Lon: 72.8792},
		{Match: "ghatkopar", Lat: 19.0860, Lon: 72.9081},
		{Match: "powai", Lat: 19.1176, Lon: 72.9060},
		{Match: "andheri", Lat: 19.1197, Lon: 72.8464},
		{Match: "mulund", Lat: 19.1726, Lon: 72.9425},
		{Match: "airoli", Lat: 19.1590, Lon: 72.9986},
		{Match: "ghansoli", Lat: 19.1164, Lon: 73.0057},
		{Match: "thane", Lat: 19.1860, Lon: 72.9756},
		{Match: "dombivli", Lat: 19.2183, Lon: 73.0868},
		{Match: "kalyan", Lat: 19.2355, Lon: 73.1299},
		{Match: "panvel", Lat: 18.9894, Lon: 73.1175},
	}
}

// Places is an ordered, immutable coordinate table.
type Places struct {
	entries []Place
}

func NewPlaces(entries []Place) (*Places, error) {
	out := make([]Place, 0, len(entries))
	for _, p := range entries {
		m := strings.ToLower(strings.TrimSpace(p.Match))
		if m == "" {
			return nil, errors.New("place match must not be empty")
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return nil, fmt.Errorf("place %q: coordinates out of range", p.Match)
		}
		out = append(out, Place{Match: m, Lat: p.Lat, Lon: p.Lon})
	}
	return &Places{entries: out}, nil
}

// Lookup returns the first place whose match text appears in location.
func (p *Places) Lookup(location string) (Place, bool) {
	if p == nil {
		return Place{}, false
	}
	loc := strings.ToLower(location)
	for _, e := range p.entries {
		if strings.Contains(loc, e.Match) {
			return e, true
		}
	}
	return Place{}, false
}

const earthRadiusKm = 6371.0

// distanceKm is the great-circle distance between two places.
func distanceKm(a, b Place) float64 {
	rad := math.Pi / 180
	dLat := (b.Lat - a.Lat) * rad
	dLon := (b.Lon - a.Lon) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*rad)*math.Cos(b.Lat*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
