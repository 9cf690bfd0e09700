package station

import (
	"errors"
	"testing"

	"github.com/danpilch/niklo/internal/timetable"
)

func known(s timetable.Station) bool {
	for _, c := range timetable.DefaultConfig().Stations {
		if c == s {
			return true
		}
	}
	return false
}

func TestNearest(t *testing.T) {
	r, err := NewResolver(DefaultKeywords(), "Thane", known)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		address string
		want    timetable.Station
	}{
		{"Hiranandani Estate, Thane West", "Thane"},
		{"MULUND EAST, Mumbai", "Thane"},
		{"Airoli Sector 5", "Thane"},
		{"Dombivli East", "Dombivli"},
		{"Ghatkopar West", "Ghatkopar"},
		{"Kurla Complex", "Kurla"},
		{"Shivaji Park, Dadar", "Dadar"},
		{"Fort, Mumbai", "CSMT"},
		{"KJSCE, Vidyavihar West", "Vidyavihar"},
		{"Random Address 123", "Thane"},
		{"", "Thane"},
	}

	for _, tt := range tests {
		if got := r.Nearest(tt.address); got != tt.want {
			t.Errorf("Nearest(%q) = %s, want %s", tt.address, got, tt.want)
		}
	}
}

func TestNearestFirstKeywordWins(t *testing.T) {
	r, err := NewResolver(DefaultKeywords(), "Thane", known)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "kurla" precedes "dadar" in the table.
	if got := r.Nearest("Dadar to Kurla road"); got != "Kurla" {
		t.Fatalf("Nearest = %s, want Kurla", got)
	}
	// "thane" precedes "ghatkopar".
	if got := r.Nearest("Ghatkopar-Thane link"); got != "Thane" {
		t.Fatalf("Nearest = %s, want Thane", got)
	}
}

func TestNewResolverRejectsUnknownStations(t *testing.T) {
	_, err := NewResolver([]Keyword{{Keyword: "andheri", Station: "Andheri"}}, "Thane", known)
	var use *timetable.UnknownStationError
	if !errors.As(err, &use) {
		t.Fatalf("error = %v, want UnknownStationError", err)
	}

	if _, err := NewResolver(DefaultKeywords(), "Churchgate", known); err == nil {
		t.Fatal("expected error for unknown default station")
	}
	if _, err := NewResolver(DefaultKeywords(), "", known); err == nil {
		t.Fatal("expected error for empty default station")
	}
}

func TestNearestNormalisesKeywords(t *testing.T) {
	r, err := NewResolver([]Keyword{{Keyword: "  Powai ", Station: "Kurla"}}, "Thane", known)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := r.Nearest("IIT POWAI"); got != "Kurla" {
		t.Fatalf("Nearest = %s, want Kurla", got)
	}
}
