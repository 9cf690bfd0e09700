package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/niklo/internal/clock"
	"github.com/danpilch/niklo/internal/config"
)

const window = 2 * time.Minute

type Monitor interface {
	CheckCommute(ctx context.Context, r config.Reminder) error
	ResetNotificationState()
}

type Task struct {
	Reminder config.Reminder
	Time     time.Time
	Executed bool
}

type Scheduler struct {
	reminders []config.Reminder
	monitor   Monitor
	location  *time.Location
	logger    *logrus.Logger
	now       func() time.Time

	mu     sync.Mutex
	tasks  []Task
	day    time.Time
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewScheduler(reminders []config.Reminder, monitor Monitor, location *time.Location, logger *logrus.Logger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		reminders: reminders,
		monitor:   monitor,
		location:  location,
		logger:    logger,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	s.setupDailyTasks()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped: context cancelled")
			return
		case <-s.stopCh:
			s.logger.Info("scheduler stopped: stop signal received")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.location)

	s.mu.Lock()
	changed := !clock.SameDay(now, s.day)
	s.mu.Unlock()

	if changed {
		s.logger.Info("day changed, resetting tasks")
		s.monitor.ResetNotificationState()
		s.setupDailyTasks()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		task := &s.tasks[i]
		if task.Executed {
			continue
		}

		if isWithinWindow(task.Time, now, window) {
			s.executeTask(ctx, task)
		}
	}
}

func isWithinWindow(taskTime, now time.Time, window time.Duration) bool {
	diff := now.Sub(taskTime)
	return diff >= 0 && diff < window
}

func (s *Scheduler) setupDailyTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.location)
	s.day = clock.Midnight(now)
	s.tasks = nil

	for _, r := range s.reminders {
		if !r.IsActiveDay(now.Weekday()) {
			continue
		}
		at, err := r.NotifyAt(now)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"reminder": r.Name,
				"error":    err,
			}).Error("failed to parse arrival time")
			continue
		}
		s.tasks = append(s.tasks, Task{Reminder: r, Time: at})
		s.logger.WithFields(logrus.Fields{
			"reminder":  r.Name,
			"notify_at": clock.Format(at),
			"arrival":   r.Arrival,
		}).Debug("scheduled commute reminder")
	}

	s.logger.WithFields(logrus.Fields{
		"weekday":     now.Weekday().String(),
		"total_tasks": len(s.tasks),
	}).Info("daily tasks scheduled")
}

// Tasks returns a copy of today's tasks.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

func (s *Scheduler) executeTask(ctx context.Context, task *Task) {
	s.logger.WithFields(logrus.Fields{
		"reminder":       task.Reminder.Name,
		"scheduled_time": clock.Format(task.Time),
	}).Debug("executing task")

	if err := s.monitor.CheckCommute(ctx, task.Reminder); err != nil {
		s.logger.WithFields(logrus.Fields{
			"reminder": task.Reminder.Name,
			"error":    err,
		}).Error("task execution failed")
		return
	}

	task.Executed = true
}
