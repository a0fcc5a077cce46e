package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"citizenreg/internal/platform/config"
	"citizenreg/internal/platform/logger"
	"citizenreg/internal/register/command"
	"citizenreg/internal/register/metrics"
	"citizenreg/internal/register/service"
	"citizenreg/internal/register/store"
	dErrors "citizenreg/pkg/domain-errors"
	"citizenreg/pkg/platform/sentinel"
)

// main wires configuration, logging and metrics, then hands control to the
// command front end. Register logic lives in internal/register.
func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: load .env: %v\n", err)
		return command.ExitError
	}
	cfg := config.FromEnv()

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return command.ExitUsage
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	open := func(ctx context.Context, file, backend string) (command.Service, error) {
		snapshot, err := store.Open(backend, file, log, m)
		if err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid --backend")
			}
			return nil, err
		}
		svc, err := service.New(ctx, snapshot, service.WithLogger(log), service.WithMetrics(m))
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code := command.New(open, cfg.Register, os.Stdout, os.Stderr, log).Run(ctx, os.Args)

	if cfg.Register.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.Register.MetricsFile, registry); err != nil {
			log.Error("failed to write metrics file",
				"path", cfg.Register.MetricsFile,
				"error", err,
			)
		}
	}
	return code
}
