package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/travel"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Errorf("location = %s", cfg.Location())
	}

	pc := cfg.PlannerConfig()
	if pc.DestinationStation != "Vidyavihar" || pc.WalkMinutes != 10 || pc.FallbackLegMinutes != 15 || pc.SearchLimit != 500 {
		t.Errorf("planner config = %+v", pc)
	}
	if pc.SearchFloor != (clock.Clock{Hour: 4}) {
		t.Errorf("search floor = %s", pc.SearchFloor)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
timezone: Asia/Kolkata
listen: ":8080"
destination:
  walk_minutes: 12
travel:
  provider: ors
  timeout: 5s
search:
  floor: "05:30"
notify:
  backend: pushover
reminders:
  - name: morning
    origin: Thane West
    arrival: "09:00"
    delay_buffer_mins: 5
    days: [monday, Wednesday]
    lead_minutes: 90
    token: uQiRzpo4DXghDmr9QzzfQu27cmVRsG
`)
	t.Setenv("ORS_API_KEY", "ors-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Listen != ":8080" || cfg.Destination.WalkMinutes != 12 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Destination.Station != "Vidyavihar" {
		t.Errorf("default destination station lost: %q", cfg.Destination.Station)
	}
	if cfg.Travel.Provider != travel.KindORS || cfg.Travel.Timeout != 5*time.Second {
		t.Errorf("travel = %+v", cfg.Travel)
	}
	if cfg.Search.Floor != (clock.Clock{Hour: 5, Minute: 30}) {
		t.Errorf("floor = %s", cfg.Search.Floor)
	}
	if cfg.Notify.Backend != notify.BackendPushover {
		t.Errorf("backend = %s", cfg.Notify.Backend)
	}
	if cfg.Secrets.ORSAPIKey != "ors-secret" {
		t.Errorf("ors key = %q", cfg.Secrets.ORSAPIKey)
	}
	if len(cfg.Timetable.Stations) != 8 {
		t.Errorf("timetable defaults lost: %d stations", len(cfg.Timetable.Stations))
	}

	if len(cfg.Reminders) != 1 {
		t.Fatalf("reminders = %+v", cfg.Reminders)
	}
	r := cfg.Reminders[0]
	if !r.IsActiveDay(time.Wednesday) || r.IsActiveDay(time.Tuesday) {
		t.Errorf("days = %v", r.Days)
	}
	at, err := r.NotifyAt(time.Date(2026, 3, 2, 0, 0, 0, 0, cfg.Location()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clock.Format(at) != "07:30" {
		t.Errorf("notify at = %s, want 07:30", clock.Format(at))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsBadClock(t *testing.T) {
	path := writeFile(t, "config.yaml", "search:\n  floor: \"25:99\"\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "HH:MM") {
		t.Fatalf("error = %v, want invalid time format", err)
	}
}

func TestValidate(t *testing.T) {
	reminder := Reminder{Name: "m", Origin: "Thane", Arrival: "09:00", Token: "tok"}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"destination station", func(c *Config) { c.Destination.Station = "Borivali" }},
		{"negative walk", func(c *Config) { c.Destination.WalkMinutes = -1 }},
		{"provider", func(c *Config) { c.Travel.Provider = "teleport" }},
		{"timeout", func(c *Config) { c.Travel.Timeout = 0 }},
		{"station address", func(c *Config) { c.Travel.StationAddress = "Railway Station" }},
		{"default station", func(c *Config) { c.Stations.Default = "Borivali" }},
		{"search limit", func(c *Config) { c.Search.Limit = -1 }},
		{"backend", func(c *Config) { c.Notify.Backend = "carrier" }},
		{"timetable", func(c *Config) { c.Timetable.Cadence = 0 }},
		{"reminder arrival", func(c *Config) {
			r := reminder
			r.Arrival = "9am"
			c.Reminders = []Reminder{r}
		}},
		{"reminder day", func(c *Config) {
			r := reminder
			r.Days = []string{"funday"}
			c.Reminders = []Reminder{r}
		}},
		{"reminder duplicate", func(c *Config) { c.Reminders = []Reminder{reminder, reminder} }},
		{"reminder token", func(c *Config) {
			r := reminder
			r.Token = ""
			c.Reminders = []Reminder{r}
		}},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestFirebaseCredentials(t *testing.T) {
	if _, err := (Secrets{}).FirebaseCredentials(); err == nil {
		t.Error("expected error without credentials")
	}

	raw := `{"type":"service_account"}`
	got, err := Secrets{FirebaseServiceAccount: base64.StdEncoding.EncodeToString([]byte(raw))}.FirebaseCredentials()
	if err != nil || string(got) != raw {
		t.Errorf("base64 credentials = %q, %v", got, err)
	}

	path := writeFile(t, "sa.json", raw)
	got, err = Secrets{FirebaseCredentialsPath: path, FirebaseServiceAccount: "!!"}.FirebaseCredentials()
	if err != nil || string(got) != raw {
		t.Errorf("file credentials = %q, %v", got, err)
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "NIKLO_TEST_PUSHOVER_TOKEN"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=app-token\n")
	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "app-token" {
		t.Errorf("%s = %q", key, got)
	}
}
