package ors

import "strconv"

// Point is a WGS84 coordinate. ORS orders coordinates lon,lat.
type Point struct {
	Lon float64
	Lat float64
}

func (p Point) String() string {
	return strconv.FormatFloat(p.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat, 'f', 6, 64)
}

// DirectionsResponse is the GeoJSON response from the directions endpoint.
type DirectionsResponse struct {
	Features []DirectionsFeature `json:"features"`
}

// DirectionsFeature is one computed route.
type DirectionsFeature struct {
	Properties struct {
		Summary Summary `json:"summary"`
	} `json:"properties"`
}

// Summary totals a route: distance in metres, duration in seconds.
type Summary struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// GeocodeResponse is the GeoJSON response from the geocode search endpoint.
type GeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}
