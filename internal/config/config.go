package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/estimate"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/planner"
	"github.com/danpilch/niklo/internal/station"
	"github.com/danpilch/niklo/internal/timetable"
	"github.com/danpilch/niklo/internal/travel"
)

type DestinationConfig struct {
	Address     string            `yaml:"address"`
	Name        string            `yaml:"name"`
	Station     timetable.Station `yaml:"station"`
	WalkMinutes int               `yaml:"walk_minutes"`
}

type TravelConfig struct {
	Provider           travel.Kind    `yaml:"provider"`
	Timeout            time.Duration  `yaml:"timeout"`
	FallbackLegMinutes int            `yaml:"fallback_leg_minutes"`
	StationAddress     string         `yaml:"station_address"` // e.g. "%s Railway Station, Mumbai"
	Country            string         `yaml:"country"`
	AverageKmh         float64        `yaml:"average_kmh"`
	RoadFactor         float64        `yaml:"road_factor"`
	Places             []travel.Place `yaml:"places"`
}

type StationsConfig struct {
	Default  timetable.Station `yaml:"default"`
	Keywords []station.Keyword `yaml:"keywords"`
}

type SearchConfig struct {
	Floor clock.Clock `yaml:"floor"`
	Limit int         `yaml:"limit"`
}

type NotifyConfig struct {
	Backend notify.Backend `yaml:"backend"`
}

type EstimatorConfig struct {
	Samples []estimate.Sample `yaml:"samples"`
}

// Reminder is a daily commute pushed to a device ahead of the arrival time.
type Reminder struct {
	Name            string   `yaml:"name"`
	Origin          string   `yaml:"origin"`
	Arrival         string   `yaml:"arrival"` // HH:MM
	DelayBufferMins int      `yaml:"delay_buffer_mins"`
	Days            []string `yaml:"days"` // e.g., ["monday", "wednesday", "friday"]
	LeadMinutes     int      `yaml:"lead_minutes"`
	Token           string   `yaml:"token"`
}

func (r Reminder) ArrivalClock() (clock.Clock, error) {
	return clock.Parse(r.Arrival)
}

// NotifyAt is when the reminder fires on day's date.
func (r Reminder) NotifyAt(day time.Time) (time.Time, error) {
	arrival, err := r.ArrivalClock()
	if err != nil {
		return time.Time{}, err
	}
	return arrival.On(day).Add(-time.Duration(r.LeadMinutes) * time.Minute), nil
}

// IsActiveDay returns true if the given weekday is in the configured days list.
// If no days are configured, returns true (runs every day).
func (r Reminder) IsActiveDay(weekday time.Weekday) bool {
	if len(r.Days) == 0 {
		return true
	}
	dayName := strings.ToLower(weekday.String())
	for _, d := range r.Days {
		if strings.ToLower(strings.TrimSpace(d)) == dayName {
			return true
		}
	}
	return false
}

// Secrets come from the environment, never from the config file.
type Secrets struct {
	GoogleMapsAPIKey        string
	ORSAPIKey               string
	PushoverToken           string
	FirebaseCredentialsPath string
	FirebaseServiceAccount  string // base64 service account JSON
}

func SecretsFromEnv() Secrets {
	return Secrets{
		GoogleMapsAPIKey:        os.Getenv("GOOGLE_MAPS_API_KEY"),
		ORSAPIKey:               os.Getenv("ORS_API_KEY"),
		PushoverToken:           os.Getenv("PUSHOVER_TOKEN"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		FirebaseServiceAccount:  os.Getenv("FIREBASE_SERVICE_ACCOUNT"),
	}
}

// FirebaseCredentials returns the service account JSON, read from the file
// path if set and decoded from base64 otherwise.
func (s Secrets) FirebaseCredentials() ([]byte, error) {
	if s.FirebaseCredentialsPath != "" {
		data, err := os.ReadFile(s.FirebaseCredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("reading firebase credentials: %w", err)
		}
		return data, nil
	}
	if s.FirebaseServiceAccount != "" {
		data, err := base64.StdEncoding.DecodeString(s.FirebaseServiceAccount)
		if err != nil {
			return nil, fmt.Errorf("decoding FIREBASE_SERVICE_ACCOUNT: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("FIREBASE_CREDENTIALS_PATH or FIREBASE_SERVICE_ACCOUNT is required for the fcm backend")
}

type Config struct {
	Timezone    string            `yaml:"timezone"`
	Listen      string            `yaml:"listen"`
	CORSOrigins []string          `yaml:"cors_origins"`
	Destination DestinationConfig `yaml:"destination"`
	Travel      TravelConfig      `yaml:"travel"`
	Stations    StationsConfig    `yaml:"stations"`
	Timetable   timetable.Config  `yaml:"timetable"`
	Search      SearchConfig      `yaml:"search"`
	Notify      NotifyConfig      `yaml:"notify"`
	Estimator   EstimatorConfig   `yaml:"estimator"`
	Reminders   []Reminder        `yaml:"reminders"`

	Secrets Secrets `yaml:"-"`

	location *time.Location
}

// Default is a complete configuration for KJSCE on the Central Line using
// the offline travel provider.
func Default() *Config {
	p := planner.DefaultConfig()
	return &Config{
		Timezone:    "Asia/Kolkata",
		Listen:      ":5000",
		CORSOrigins: []string{"*"},
		Destination: DestinationConfig{
			Address:     p.Destination,
			Name:        p.DestinationName,
			Station:     p.DestinationStation,
			WalkMinutes: p.WalkMinutes,
		},
		Travel: TravelConfig{
			Provider:           travel.KindSimulated,
			Timeout:            10 * time.Second,
			FallbackLegMinutes: p.FallbackLegMinutes,
			StationAddress:     p.StationAddress,
			Country:            "IN",
			Places:             travel.DefaultPlaces(),
		},
		Stations: StationsConfig{
			Default:  "Thane",
			Keywords: station.DefaultKeywords(),
		},
		Timetable: timetable.DefaultConfig(),
		Search: SearchConfig{
			Floor: p.SearchFloor,
			Limit: p.SearchLimit,
		},
		Notify:    NotifyConfig{Backend: notify.BackendDisabled},
		Estimator: EstimatorConfig{Samples: estimate.DefaultSamples()},
	}
}

// LoadEnv reads .env files into the environment. Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load overlays the YAML file at path on Default and reads secrets from the
// environment. An empty path uses the defaults alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.Secrets = SecretsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	c.location = loc

	if err := c.Timetable.Validate(); err != nil {
		return fmt.Errorf("timetable: %w", err)
	}

	if c.Destination.Address == "" || c.Destination.Station == "" {
		return errors.New("destination: address and station are required")
	}
	if !c.Timetable.Has(c.Destination.Station) {
		return fmt.Errorf("destination: %w", &timetable.UnknownStationError{Station: c.Destination.Station})
	}
	if c.Destination.WalkMinutes < 0 {
		return errors.New("destination: walk_minutes must not be negative")
	}

	switch c.Travel.Provider {
	case travel.KindGoogle, travel.KindORS, travel.KindSimulated:
	default:
		return fmt.Errorf("travel: unknown provider %q", c.Travel.Provider)
	}
	if c.Travel.Timeout <= 0 {
		return errors.New("travel: timeout must be positive")
	}
	if c.Travel.FallbackLegMinutes < 0 {
		return errors.New("travel: fallback_leg_minutes must not be negative")
	}
	if strings.Count(c.Travel.StationAddress, "%s") != 1 || strings.Count(c.Travel.StationAddress, "%") != 1 {
		return fmt.Errorf("travel: station_address must contain a single %%s, got %q", c.Travel.StationAddress)
	}

	if !c.Timetable.Has(c.Stations.Default) {
		return fmt.Errorf("stations: default: %w", &timetable.UnknownStationError{Station: c.Stations.Default})
	}

	if c.Search.Limit < 0 {
		return errors.New("search: limit must not be negative")
	}

	switch c.Notify.Backend {
	case notify.BackendFCM, notify.BackendPushover, notify.BackendDisabled:
	default:
		return fmt.Errorf("notify: unknown backend %q", c.Notify.Backend)
	}

	names := make(map[string]bool, len(c.Reminders))
	for i, r := range c.Reminders {
		if r.Name == "" {
			return fmt.Errorf("reminders[%d]: name is required", i)
		}
		if names[r.Name] {
			return fmt.Errorf("reminders[%d]: duplicate name %q", i, r.Name)
		}
		names[r.Name] = true

		if strings.TrimSpace(r.Origin) == "" || r.Token == "" {
			return fmt.Errorf("reminder %s: origin and token are required", r.Name)
		}
		if _, err := r.ArrivalClock(); err != nil {
			return fmt.Errorf("reminder %s: %w", r.Name, err)
		}
		if r.DelayBufferMins < 0 || r.LeadMinutes < 0 {
			return fmt.Errorf("reminder %s: delay_buffer_mins and lead_minutes must not be negative", r.Name)
		}
		for _, d := range r.Days {
			if !isWeekday(d) {
				return fmt.Errorf("reminder %s: unknown day %q", r.Name, d)
			}
		}
	}

	return nil
}

func isWeekday(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return true
		}
	}
	return false
}

// Location is the configured time zone. It is set by Validate.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) PlannerConfig() planner.Config {
	return planner.Config{
		Destination:        c.Destination.Address,
		DestinationName:    c.Destination.Name,
		DestinationStation: c.Destination.Station,
		WalkMinutes:        c.Destination.WalkMinutes,
		FallbackLegMinutes: c.Travel.FallbackLegMinutes,
		StationAddress:     c.Travel.StationAddress,
		SearchFloor:        c.Search.Floor,
		SearchLimit:        c.Search.Limit,
		Location:           c.Location(),
	}
}

func (c *Config) TravelOptions() travel.Options {
	return travel.Options{
		Kind:         c.Travel.Provider,
		GoogleAPIKey: c.Secrets.GoogleMapsAPIKey,
		ORSAPIKey:    c.Secrets.ORSAPIKey,
		Timeout:      c.Travel.Timeout,
		Places:       c.Travel.Places,
		Country:      c.Travel.Country,
		AverageKmh:   c.Travel.AverageKmh,
		RoadFactor:   c.Travel.RoadFactor,
	}
}
