// Package app wires configuration, logging, tracing and metrics around the
// coordinator and exposes the fanbatch root command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/agbru/fanbatch/internal/cli"
	"github.com/agbru/fanbatch/internal/config"
	apperrors "github.com/agbru/fanbatch/internal/errors"
	"github.com/agbru/fanbatch/internal/logging"
	"github.com/agbru/fanbatch/internal/metrics"
	"github.com/agbru/fanbatch/internal/orchestration"
	"github.com/agbru/fanbatch/internal/tracing"
	"github.com/agbru/fanbatch/internal/tui"
	"github.com/agbru/fanbatch/internal/ui"
	"github.com/agbru/fanbatch/internal/worker"
)

// Application represents one fanbatch invocation.
type Application struct {
	Config    config.AppConfig
	Out       io.Writer
	ErrWriter io.Writer
}

// syncer is implemented by loggers that buffer output.
type syncer interface{ Sync() error }

// Run executes the configured batch and returns the process exit code.
func (a *Application) Run(ctx context.Context) int {
	ui.InitTheme(a.Config.NoColor)

	logger, err := logging.New(a.Config.LogBackend, a.ErrWriter, "fanbatch", a.Config.LogLevel)
	if err != nil {
		return a.fail(apperrors.NewConfigError("%v", err))
	}
	if s, ok := logger.(syncer); ok {
		defer func() { _ = s.Sync() }()
	}

	batch, err := a.Config.ResolveBatch()
	if err != nil {
		return a.fail(err)
	}
	tasks, err := batch.Tasks(a.Config.Fail, worker.WithLogger(logger))
	if err != nil {
		return a.fail(err)
	}
	workers := orchestration.AsWorkers(tasks)

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	tp, shutdownTracing, err := tracing.Setup(a.Config.Trace, a.ErrWriter)
	if err != nil {
		return a.fail(err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("trace shutdown failed", logging.Err(err))
		}
	}()

	recorder := metrics.NewRecorder()
	runID := uuid.NewString()
	opts := []orchestration.Option{
		orchestration.WithRunID(runID),
		orchestration.WithDrainTimeout(a.Config.DrainTimeout),
		orchestration.WithChannelCapacity(a.Config.ChannelCapacity),
		orchestration.WithLogger(logger),
		orchestration.WithRecorder(recorder),
		orchestration.WithTracerProvider(tp),
	}
	logger.Debug("batch resolved",
		logging.String("run_id", runID),
		logging.Int("workers", len(workers)),
		logging.Duration("drain_timeout", a.Config.DrainTimeout))

	memory := metrics.NewMemoryCollector()
	before := memory.Snapshot()

	var report orchestration.Report
	if a.Config.TUI {
		report, err = tui.Run(ctx, workers, runID, Version, func(ctx context.Context, obs orchestration.Observer) orchestration.Report {
			return orchestration.New(append(opts, orchestration.WithObserver(obs))...).Run(ctx, workers)
		})
		if err != nil {
			logger.Error("dashboard failed", err)
		}
	} else {
		if !a.Config.Quiet {
			opts = append(opts, orchestration.WithObserver(cli.NewConsoleObserver(a.Out, len(workers), cli.IsTerminal(a.Out))))
		}
		report = orchestration.New(opts...).Run(ctx, workers)
	}

	delta := memory.Snapshot().Since(before)
	outCfg := cli.OutputConfig{
		OutputFile:     a.Config.OutputFile,
		Quiet:          a.Config.Quiet,
		SummaryDetails: cli.SummaryDetails{Verbose: a.Config.Verbose, Memory: &delta},
	}
	if err := cli.DisplayReport(a.Out, report, time.Now(), outCfg); err != nil {
		logger.Error("cannot write report", err, logging.String("path", a.Config.OutputFile))
		return apperrors.ExitErrorGeneric
	}
	if a.Config.MetricsFile != "" {
		if err := recorder.WriteFile(a.Config.MetricsFile); err != nil {
			logger.Error("cannot write metrics", err, logging.String("path", a.Config.MetricsFile))
			return apperrors.ExitErrorGeneric
		}
	}
	return report.ExitCode()
}

// fail prints err and returns its exit code.
func (a *Application) fail(err error) int {
	fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
	return apperrors.ExitCodeFor(err)
}
