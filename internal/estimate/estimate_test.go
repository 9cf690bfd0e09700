package estimate

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/danpilch/niklo/internal/clock"
)

func TestPredictFromDefaultSamples(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := New(DefaultSamples(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		hour, minute, day int
		want              float64
	}{
		{8, 0, 0, 58.41},
		{9, 0, 0, 59.75},
		{18, 30, 0, 74.22},
		{8, 0, 1, 55.33},
		{12, 15, 3, 55.73},
	}
	for _, tt := range tests {
		got, ok := e.Predict(tt.hour, tt.minute, tt.day)
		if !ok {
			t.Fatalf("Predict(%d, %d, %d) not trained", tt.hour, tt.minute, tt.day)
		}
		if got != tt.want {
			t.Errorf("Predict(%d, %d, %d) = %v, want %v", tt.hour, tt.minute, tt.day, got, tt.want)
		}
	}
}

func TestLearnRefits(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := New(DefaultSamples(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.Learn(clock.MustParse("10:00"), 2, 58); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := e.Predict(10, 0, 2)
	if !ok || got != 57.13 {
		t.Errorf("Predict after Learn = %v, %v, want 57.13", got, ok)
	}
}

func TestUntrainedWithoutEnoughSamples(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := New(DefaultSamples()[:2], logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Predict(8, 0, 0); ok {
		t.Error("expected no prediction from two samples")
	}
}

func TestUntrainedWhenSingular(t *testing.T) {
	logger, hook := test.NewNullLogger()
	same := Sample{Hour: 8, Minute: 0, DayOfWeek: 0, Minutes: 55}
	e, err := New([]Sample{same, same, same, same, same}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Trained() {
		t.Error("expected identical samples to leave the model untrained")
	}
	if hook.LastEntry() == nil {
		t.Error("expected the failed fit to be logged")
	}
}

func TestLearnRejectsInvalidSamples(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := New(nil, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.Learn(clock.MustParse("08:00"), 7, 50); err == nil {
		t.Error("expected error for day of week 7")
	}
	if err := e.Learn(clock.MustParse("08:00"), 1, 0); err == nil {
		t.Error("expected error for zero duration")
	}
	if _, err := New([]Sample{{Hour: 24, Minutes: 10}}, logger); err == nil {
		t.Error("expected error for hour 24")
	}
}

func TestConcurrentLearnAndPredict(t *testing.T) {
	logger, _ := test.NewNullLogger()
	e, err := New(DefaultSamples(), logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = e.Learn(clock.Clock{Hour: 7 + i, Minute: 15}, i%7, float64(45+i))
		}()
		go func() {
			defer wg.Done()
			e.Predict(9, 0, 0)
		}()
	}
	wg.Wait()

	if !e.Trained() {
		t.Error("expected a trained model")
	}
}
