package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/config"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/planner"
)

type fakePlanner struct {
	calls  int
	err    error
	origin string
	buffer int
}

func (f *fakePlanner) Plan(ctx context.Context, origin string, arrival clock.Clock, bufferMins int) (*planner.CommutePlan, error) {
	f.calls++
	f.origin, f.buffer = origin, bufferMins
	if f.err != nil {
		return nil, f.err
	}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return &planner.CommutePlan{
		Arrival: arrival.On(day),
		RoadRoute: planner.Itinerary{
			Mode:              planner.RoadOnly,
			LeaveAt:           arrival.On(day).Add(-45 * time.Minute),
			TotalDurationMins: 45,
		},
		Recommendation: planner.RecommendRoad,
	}, nil
}

type fakeSender struct {
	sent  []string
	err   error
	token string
}

func (f *fakeSender) Send(ctx context.Context, token, title, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.token = token
	f.sent = append(f.sent, title)
	return "msg-1", nil
}

var reminder = config.Reminder{
	Name:            "morning",
	Origin:          "Thane West",
	Arrival:         "09:00",
	DelayBufferMins: 5,
	LeadMinutes:     60,
	Token:           "device",
}

func newMonitor(p Planner, s notify.Sender) *CommuteMonitor {
	logger, _ := test.NewNullLogger()
	return NewCommuteMonitor(p, notify.NewNotifier(s, logger), logger)
}

func TestCheckCommuteNotifiesOnce(t *testing.T) {
	p := &fakePlanner{}
	s := &fakeSender{}
	m := newMonitor(p, s)

	for i := 0; i < 3; i++ {
		if err := m.CheckCommute(context.Background(), reminder); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if p.calls != 1 || len(s.sent) != 1 {
		t.Fatalf("plans=%d sent=%d, want 1 each", p.calls, len(s.sent))
	}
	if s.token != "device" || s.sent[0] != "morning: Leave at 08:15 (Road)" {
		t.Errorf("sent %q to %q", s.sent[0], s.token)
	}
	if p.origin != "Thane West" || p.buffer != 5 {
		t.Errorf("planned origin=%q buffer=%d", p.origin, p.buffer)
	}

	m.ResetNotificationState()
	if err := m.CheckCommute(context.Background(), reminder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.sent) != 2 {
		t.Errorf("sent = %d after reset, want 2", len(s.sent))
	}
}

func TestCheckCommuteRetriesAfterFailure(t *testing.T) {
	p := &fakePlanner{err: &planner.TravelProviderError{Err: errors.New("request timed out")}}
	s := &fakeSender{}
	m := newMonitor(p, s)

	var pe *planner.TravelProviderError
	if err := m.CheckCommute(context.Background(), reminder); !errors.As(err, &pe) {
		t.Fatalf("error = %v, want TravelProviderError", err)
	}

	p.err = nil
	if err := m.CheckCommute(context.Background(), reminder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.sent) != 1 {
		t.Errorf("sent = %d, want 1", len(s.sent))
	}
}

func TestCheckCommuteSendFailure(t *testing.T) {
	m := newMonitor(&fakePlanner{}, notify.Disabled{})

	if err := m.CheckCommute(context.Background(), reminder); !errors.Is(err, notify.ErrDisabled) {
		t.Fatalf("error = %v, want ErrDisabled", err)
	}
}
