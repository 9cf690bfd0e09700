package travel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danpilch/niklo/internal/api/gmaps"
	"github.com/danpilch/niklo/internal/api/ors"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
}

func TestGoogleProviderPrefersTrafficDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("origins") != "Thane West" || q.Get("destinations") != "KJSCE" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("departure_time") != "1772436600" {
			t.Errorf("departure_time = %s", q.Get("departure_time"))
		}
		if q.Get("key") != "secret" {
			t.Errorf("key = %s", q.Get("key"))
		}
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"duration": {"value": 1800, "text": "30 mins"},
				"duration_in_traffic": {"value": 2700, "text": "45 mins"},
				"distance": {"value": 15200, "text": "15.2 km"}
			}]}]
		}`))
	}))
	defer srv.Close()

	p := newGoogleProvider(gmaps.NewClient("secret", time.Second).WithBaseURL(srv.URL), fixedNow)
	got, err := p.TravelTime(context.Background(), "Thane West", "KJSCE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Result{DurationSeconds: 2700, DurationText: "45 mins", DistanceText: "15.2 km"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGoogleProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		reason string
	}{
		{"api status", `{"status":"REQUEST_DENIED","error_message":"bad key"}`, 200, "API Error: REQUEST_DENIED (bad key)"},
		{"element status", `{"status":"OK","rows":[{"elements":[{"status":"NOT_FOUND"}]}]}`, 200, "Element status: NOT_FOUND"},
		{"empty matrix", `{"status":"OK","rows":[]}`, 200, "API Error: empty matrix"},
		{"http status", `oops`, 500, "request failed"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		p := newGoogleProvider(gmaps.NewClient("k", time.Second).WithBaseURL(srv.URL), fixedNow)
		_, err := p.TravelTime(context.Background(), "a", "b")
		srv.Close()

		var te *Error
		if !errors.As(err, &te) {
			t.Errorf("%s: error = %v, want *travel.Error", tt.name, err)
			continue
		}
		if te.Reason != tt.reason {
			t.Errorf("%s: reason = %q, want %q", tt.name, te.Reason, tt.reason)
		}
	}
}

func TestGoogleProviderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := newGoogleProvider(gmaps.NewClient("k", 50*time.Millisecond).WithBaseURL(srv.URL), fixedNow)
	_, err := p.TravelTime(context.Background(), "a", "b")

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *travel.Error", err)
	}
	if te.Reason != "request timed out" {
		t.Fatalf("reason = %q, want request timed out", te.Reason)
	}
}

func TestORSProviderUsesPlacesThenGeocode(t *testing.T) {
	var geocoded []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "ors-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		switch {
		case r.URL.Path == "/geocode/search":
			geocoded = append(geocoded, r.URL.Query().Get("text"))
			if r.URL.Query().Get("boundary.country") != "IN" {
				t.Errorf("boundary.country = %q", r.URL.Query().Get("boundary.country"))
			}
			w.Write([]byte(`{"features":[{"geometry":{"coordinates":[72.99,19.19]}}]}`))
		case r.URL.Path == "/v2/directions/driving-car":
			if got := r.URL.Query().Get("end"); got != "72.900000,19.072800" {
				t.Errorf("end = %q", got)
			}
			w.Write([]byte(`{"features":[{"properties":{"summary":{"distance":16250.4,"duration":2012.6}}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	places, err := NewPlaces(DefaultPlaces())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := newORSProvider(ors.NewClient("ors-key", time.Second).WithBaseURL(srv.URL), places, "IN")

	got, err := p.TravelTime(context.Background(), "Lodha  Amara,   Kolshet Road", "KJSCE, Vidyavihar West")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(geocoded) != 1 || geocoded[0] != "Lodha Amara, Kolshet Road" {
		t.Fatalf("geocoded = %v, want only the unknown origin", geocoded)
	}
	want := Result{DurationSeconds: 2013, DurationText: "34 mins", DistanceText: "16.3 km"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestORSProviderNoGeocodeResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	places, _ := NewPlaces(nil)
	p := newORSProvider(ors.NewClient("k", time.Second).WithBaseURL(srv.URL), places, "")

	_, err := p.TravelTime(context.Background(), "Nowhere", "Elsewhere")
	var te *Error
	if !errors.As(err, &te) || !strings.Contains(te.Reason, "no geocode results") {
		t.Fatalf("error = %v, want no geocode results", err)
	}
}

func TestSimulatedProvider(t *testing.T) {
	places, err := NewPlaces(DefaultPlaces())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := NewSimulatedProvider(places, 0, 0)

	near, err := p.TravelTime(context.Background(), "Vidyavihar Railway Station, Mumbai", "KJSCE, Vidyavihar West")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	far, err := p.TravelTime(context.Background(), "Kalyan West", "KJSCE, Vidyavihar West")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if near.DurationSeconds <= 0 || far.DurationSeconds <= near.DurationSeconds {
		t.Fatalf("durations near=%d far=%d, want 0 < near < far", near.DurationSeconds, far.DurationSeconds)
	}
	if !strings.HasSuffix(far.DistanceText, " km") {
		t.Fatalf("distance text = %q", far.DistanceText)
	}

	_, err = p.TravelTime(context.Background(), "Random Address 123", "KJSCE")
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *travel.Error", err)
	}
}

func TestDurationText(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{20, "1 min"},
		{60, "1 min"},
		{1380, "23 mins"},
		{3600, "1 hour"},
		{3900, "1 hour 5 mins"},
		{7260, "2 hours 1 min"},
	}
	for _, tt := range tests {
		if got := durationText(tt.seconds); got != tt.want {
			t.Errorf("durationText(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestNewRejectsMissingKeys(t *testing.T) {
	if _, err := New(Options{Kind: KindGoogle}); err == nil {
		t.Error("expected error for google without key")
	}
	if _, err := New(Options{Kind: KindORS}); err == nil {
		t.Error("expected error for ors without key")
	}
	if _, err := New(Options{Kind: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := New(Options{Kind: KindSimulated, Places: DefaultPlaces()}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
