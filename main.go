package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

type Globals struct {
	Config    string   `help:"Path to config file" default:"config.yaml" type:"path"`
	EnvFile   []string `help:"Dotenv files to load before reading the environment" default:".env" name:"env-file"`
	LogLevel  string   `help:"Log level" default:"info" enum:"debug,info,warn,error"`
	LogFormat string   `help:"Log format" default:"text" enum:"text,json"`
}

var CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the HTTP API and commute reminders"`
	Plan    PlanCmd    `cmd:"" help:"Plan a commute to the destination"`
	Trains  TrainsCmd  `cmd:"" help:"List trains between two stations"`
	Traffic TrafficCmd `cmd:"" help:"Look up road travel time"`
	Predict PredictCmd `cmd:"" help:"Predict commute duration"`
	Notify  NotifyCmd  `cmd:"" help:"Send a push notification"`
}

func newLogger(g Globals) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(g.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if g.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	return logger
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("niklo"),
		kong.Description("Plan the commute to KJSCE: drive, or drive and take the train."),
		kong.UsageOnError(),
	)

	logger := newLogger(CLI.Globals)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("received signal, shutting down")
		cancel()
	}()

	a, err := newApp(ctx, CLI.Globals, logger)
	if err != nil {
		logger.WithField("error", err).Fatal("failed to start")
	}

	kctx.FatalIfErrorf(kctx.Run(a))
}
