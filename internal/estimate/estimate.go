// Package estimate predicts door-to-door commute minutes from the departure
// time and weekday with a linear least-squares fit over past trips.
package estimate

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/danpilch/niklo/internal/clock"
)

// features is intercept, hour, minute and day of week.
const features = 4

// Sample is one observed trip. DayOfWeek counts from Monday = 0.
type Sample struct {
	Hour      int     `yaml:"hour"`
	Minute    int     `yaml:"minute"`
	DayOfWeek int     `yaml:"day_of_week"`
	Minutes   float64 `yaml:"minutes"`
}

func (s Sample) validate() error {
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("invalid departure %02d:%02d", s.Hour, s.Minute)
	}
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("day of week must be 0-6, got %d", s.DayOfWeek)
	}
	if s.Minutes <= 0 {
		return fmt.Errorf("duration must be positive, got %v", s.Minutes)
	}
	return nil
}

// DefaultSamples seeds the model with a handful of weekday trips.
func DefaultSamples() []Sample {
	return []Sample{
		{Hour: 8, Minute: 0, DayOfWeek: 0, Minutes: 55},
		{Hour: 8, Minute: 30, DayOfWeek: 0, Minutes: 60},
		{Hour: 9, Minute: 0, DayOfWeek: 0, Minutes: 65},
		{Hour: 18, Minute: 0, DayOfWeek: 0, Minutes: 70},
		{Hour: 18, Minute: 30, DayOfWeek: 0, Minutes: 75},
		{Hour: 8, Minute: 0, DayOfWeek: 1, Minutes: 50},
		{Hour: 9, Minute: 0, DayOfWeek: 1, Minutes: 62},
	}
}

type Estimator struct {
	logger *logrus.Logger

	mu      sync.RWMutex
	samples []Sample
	coef    []float64
}

func New(samples []Sample, logger *logrus.Logger) (*Estimator, error) {
	for i, s := range samples {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	e := &Estimator{
		logger:  logger,
		samples: append([]Sample(nil), samples...),
	}
	e.refit()
	return e, nil
}

// Predict returns the expected trip length in minutes, rounded to two
// decimals. It reports false until the samples determine a unique fit.
func (e *Estimator) Predict(hour, minute, dayOfWeek int) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.coef == nil {
		return 0, false
	}
	x := []float64{1, float64(hour), float64(minute), float64(dayOfWeek)}
	var y float64
	for i, c := range e.coef {
		y += c * x[i]
	}
	return math.Round(y*100) / 100, true
}

// Learn records a completed trip and refits the model.
func (e *Estimator) Learn(departure clock.Clock, dayOfWeek int, minutes float64) error {
	s := Sample{Hour: departure.Hour, Minute: departure.Minute, DayOfWeek: dayOfWeek, Minutes: minutes}
	if err := s.validate(); err != nil {
		return err
	}

	e.mu.Lock()
	e.samples = append(e.samples, s)
	e.mu.Unlock()

	e.refit()
	return nil
}

// Trained reports whether Predict currently returns values.
func (e *Estimator) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.coef != nil
}

func (e *Estimator) refit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.samples)
	if n < features {
		e.coef = nil
		return
	}

	x := mat.NewDense(n, features, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range e.samples {
		x.SetRow(i, []float64{1, float64(s.Hour), float64(s.Minute), float64(s.DayOfWeek)})
		y.SetVec(i, s.Minutes)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		e.logger.WithFields(logrus.Fields{
			"samples": n,
			"error":   err,
		}).Warn("duration model not trained")
		e.coef = nil
		return
	}

	e.coef = mat.Col(nil, 0, &beta)
	e.logger.WithField("samples", n).Debug("duration model trained")
}
