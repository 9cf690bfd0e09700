// Package monitor plans configured commutes and pushes the recommendation.
package monitor

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/config"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/planner"
)

type Planner interface {
	Plan(ctx context.Context, origin string, arrival clock.Clock, bufferMins int) (*planner.CommutePlan, error)
}

type CommuteMonitor struct {
	planner  Planner
	notifier *notify.Notifier
	logger   *logrus.Logger

	mu       sync.Mutex
	notified map[string]bool
}

func NewCommuteMonitor(p Planner, notifier *notify.Notifier, logger *logrus.Logger) *CommuteMonitor {
	return &CommuteMonitor{
		planner:  p,
		notifier: notifier,
		logger:   logger,
		notified: make(map[string]bool),
	}
}

func (m *CommuteMonitor) ResetNotificationState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = make(map[string]bool)
}

// CheckCommute plans the reminder's commute and notifies its token. Each
// reminder is notified at most once until the state is reset.
func (m *CommuteMonitor) CheckCommute(ctx context.Context, r config.Reminder) error {
	m.mu.Lock()
	done := m.notified[r.Name]
	m.mu.Unlock()
	if done {
		m.logger.WithField("reminder", r.Name).Debug("already notified today")
		return nil
	}

	arrival, err := r.ArrivalClock()
	if err != nil {
		return fmt.Errorf("parsing arrival time: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"reminder": r.Name,
		"origin":   r.Origin,
		"arrival":  arrival.String(),
	}).Info("planning commute")

	plan, err := m.planner.Plan(ctx, r.Origin, arrival, r.DelayBufferMins)
	if err != nil {
		return fmt.Errorf("planning commute: %w", err)
	}

	id, err := m.notifier.SendCommutePlan(ctx, r.Token, r.Name, plan)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.notified[r.Name] = true
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"reminder":       r.Name,
		"recommendation": plan.Recommendation,
		"message_id":     id,
	}).Info("commute notification sent")

	return nil
}
