package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/danpilch/niklo/internal/config"
	"github.com/danpilch/niklo/internal/estimate"
	"github.com/danpilch/niklo/internal/notify"
	"github.com/danpilch/niklo/internal/planner"
	"github.com/danpilch/niklo/internal/station"
	"github.com/danpilch/niklo/internal/timetable"
	"github.com/danpilch/niklo/internal/travel"
)

// app holds the components shared by every command.
type app struct {
	ctx       context.Context
	cfg       *config.Config
	logger    *logrus.Logger
	provider  travel.Provider
	schedule  *timetable.Schedule
	resolver  *station.Resolver
	planner   *planner.Planner
	estimator *estimate.Estimator
	notifier  *notify.Notifier
}

func newApp(ctx context.Context, g Globals, logger *logrus.Logger) (*app, error) {
	if err := config.LoadEnv(g.EnvFile...); err != nil {
		return nil, err
	}

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	opts := cfg.TravelOptions()
	provider, err := travel.New(opts)
	if err != nil {
		return nil, fmt.Errorf("creating travel provider: %w", err)
	}

	schedule, err := timetable.NewSchedule(cfg.Timetable)
	if err != nil {
		return nil, err
	}

	resolver, err := station.NewResolver(cfg.Stations.Keywords, cfg.Stations.Default, cfg.Timetable.Has)
	if err != nil {
		return nil, err
	}

	estimator, err := estimate.New(cfg.Estimator.Samples, logger)
	if err != nil {
		return nil, fmt.Errorf("estimator: %w", err)
	}

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"provider": opts.Kind,
		"notify":   cfg.Notify.Backend,
		"timezone": cfg.Location().String(),
	}).Debug("configuration loaded")

	return &app{
		ctx:       ctx,
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		schedule:  schedule,
		resolver:  resolver,
		planner:   planner.New(cfg.PlannerConfig(), provider, resolver, schedule, logger),
		estimator: estimator,
		notifier:  notify.NewNotifier(sender, logger),
	}, nil
}

func newSender(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (notify.Sender, error) {
	switch cfg.Notify.Backend {
	case notify.BackendFCM:
		creds, err := cfg.Secrets.FirebaseCredentials()
		if err != nil {
			return nil, err
		}
		sender, err := notify.NewFCMSender(ctx, creds, logger)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case notify.BackendPushover:
		if cfg.Secrets.PushoverToken == "" {
			return nil, errors.New("PUSHOVER_TOKEN is required for the pushover backend")
		}
		return notify.NewPushoverSender(cfg.Secrets.PushoverToken, logger), nil
	default:
		return notify.Disabled{}, nil
	}
}
