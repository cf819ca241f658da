// Package main provides the entry point for the Mocky effects RunPod worker.
// It pulls jobs from the RunPod webhooks and runs each through the effect handler.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/mocky-effects/internal/bootstrap"
	"github.com/maauso/mocky-effects/internal/config"
	"github.com/maauso/mocky-effects/internal/runpod"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	client, err := runpod.NewClient(cfg.RunPodJobURL, cfg.RunPodOutputURL,
		runpod.WithAPIKey(cfg.RunPodAPIKey),
		runpod.WithPodID(cfg.RunPodPodID),
	)
	if err != nil {
		return fmt.Errorf("create RunPod client: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting Mocky effects worker",
		slog.String("pod_id", cfg.RunPodPodID),
		slog.String("acceleration", cfg.Acceleration),
		slog.Bool("gpu_available", deps.Probe.Available(ctx)),
		slog.String("temp_dir", cfg.TempDir),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	return runpod.NewWorker(client, logger).Run(ctx, func(ctx context.Context, j runpod.Job) any {
		return deps.Service.HandleRaw(ctx, j.ID, j.Input)
	})
}
