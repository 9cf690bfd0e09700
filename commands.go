package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/monitor"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/scheduler"
	"github.com/danpilch/niklo/internal/server"
	"github.com/danpilch/niklo/internal/timetable"
	"github.com/danpilch/niklo/internal/travel"
)

type ServeCmd struct {
	Listen      string `help:"Listen address, overrides the config file"`
	NoReminders bool   `help:"Do not run the commute reminder scheduler"`
}

func (c *ServeCmd) Run(a *app) error {
	addr := a.cfg.Listen
	if c.Listen != "" {
		addr = c.Listen
	}

	srv := server.New(server.Options{
		Planner:     a.planner,
		Provider:    a.provider,
		Schedule:    a.schedule,
		Estimator:   a.estimator,
		Notifier:    a.notifier,
		Location:    a.cfg.Location(),
		CORSOrigins: a.cfg.CORSOrigins,
		Logger:      a.logger,
	})

	var sched *scheduler.Scheduler
	if !c.NoReminders && len(a.cfg.Reminders) > 0 {
		mon := monitor.NewCommuteMonitor(a.planner, a.notifier, a.logger)
		sched = scheduler.NewScheduler(a.cfg.Reminders, mon, a.cfg.Location(), a.logger)
		sched.Start(a.ctx)
	}

	a.logger.WithFields(logrus.Fields{
		"addr":        addr,
		"destination": a.cfg.Destination.Address,
		"reminders":   len(a.cfg.Reminders),
	}).Info("starting niklo")

	err := srv.ListenAndServe(a.ctx, addr)

	if sched != nil {
		sched.Stop()
	}
	a.logger.Info("niklo stopped")
	return err
}

type PlanCmd struct {
	Origin  string `arg:"" help:"Home address"`
	Arrival string `arg:"" help:"Arrival time at the destination (HH:MM)"`
	Buffer  int    `help:"Minutes of expected train delay" default:"0"`
	JSON    bool   `help:"Print JSON"`
}

func (c *PlanCmd) Run(a *app) error {
	arrival, err := clock.Parse(c.Arrival)
	if err != nil {
		return err
	}

	plan, err := a.planner.Plan(a.ctx, c.Origin, arrival, c.Buffer)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(server.NewCommuteResponse(plan))
	}
	title, body := notify.CommuteMessage("", plan)
	fmt.Printf("%s\n%s\n", title, body)
	return nil
}

type TrainsCmd struct {
	From  string `arg:"" help:"Boarding station"`
	To    string `arg:"" help:"Alighting station"`
	After string `help:"Earliest departure (HH:MM), defaults to now"`
	Limit int    `help:"Maximum number of trains" default:"10"`
}

func (c *TrainsCmd) Run(a *app) error {
	now := time.Now().In(a.cfg.Location())
	after := now
	if c.After != "" {
		t, err := clock.Parse(c.After)
		if err != nil {
			return err
		}
		after = t.On(now)
	}

	tt, err := a.schedule.For(now)
	if err != nil {
		return err
	}
	deps, err := tt.FindTrains(timetable.Station(c.From), timetable.Station(c.To), after, c.Limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRAIN\tTYPE\tDEPART\tARRIVE\tMINS")
	for _, d := range deps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", d.TrainID, d.Type, clock.Format(d.Departure), clock.Format(d.Arrival), d.DurationMins)
	}
	return w.Flush()
}

type TrafficCmd struct {
	Origin      string `arg:"" help:"Start address"`
	Destination string `arg:"" optional:"" help:"End address, defaults to the configured destination"`
	Station     bool   `help:"Also look up the drive to the origin's nearest station"`
}

func (c *TrafficCmd) Run(a *app) error {
	dest := c.Destination
	if dest == "" {
		dest = a.cfg.Destination.Address
	}

	lookups := []string{dest}
	if c.Station {
		lookups = append(lookups, a.planner.StationAddress(a.resolver.Nearest(c.Origin)))
	}

	results := make([]travel.Result, len(lookups))
	errs := make([]error, len(lookups))
	var wg conc.WaitGroup
	for i, to := range lookups {
		wg.Go(func() {
			results[i], errs[i] = a.provider.TravelTime(a.ctx, c.Origin, to)
		})
	}
	wg.Wait()

	for i, to := range lookups {
		if errs[i] != nil {
			return fmt.Errorf("%s: %w", to, errs[i])
		}
		fmt.Printf("%s → %s: %s (%s)\n", c.Origin, to, results[i].DurationText, results[i].DistanceText)
	}
	return nil
}

type PredictCmd struct {
	Time      string `arg:"" help:"Departure time (HH:MM)"`
	DayOfWeek int    `arg:"" help:"Day of week, Monday = 0"`
}

func (c *PredictCmd) Run(a *app) error {
	t, err := clock.Parse(c.Time)
	if err != nil {
		return err
	}
	if c.DayOfWeek < 0 || c.DayOfWeek > 6 {
		return fmt.Errorf("day of week must be 0-6, got %d", c.DayOfWeek)
	}

	mins, ok := a.estimator.Predict(t.Hour, t.Minute, c.DayOfWeek)
	if !ok {
		fmt.Println("not enough trips to predict")
		return nil
	}
	fmt.Printf("%.2f mins\n", mins)
	return nil
}

type NotifyCmd struct {
	Token string `arg:"" help:"Device token or Pushover user key"`
	Title string `arg:"" help:"Notification title"`
	Body  string `arg:"" help:"Notification body"`
}

func (c *NotifyCmd) Run(a *app) error {
	id, err := a.notifier.Send(a.ctx, c.Token, c.Title, c.Body)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
