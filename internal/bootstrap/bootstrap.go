// Package bootstrap wires the effect handler and its dependencies from configuration.
// Every entry point (RunPod worker, HTTP service, Lambda, CLI) builds on it.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/maauso/mocky-effects/internal/config"
	"github.com/maauso/mocky-effects/internal/hwaccel"
	"github.com/maauso/mocky-effects/internal/job"
	"github.com/maauso/mocky-effects/internal/media"
	"github.com/maauso/mocky-effects/internal/storage"
)

// Dependencies holds all initialized dependencies.
type Dependencies struct {
	Service *job.Service
	Probe   hwaccel.Probe
	Storage storage.Storage
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	probe, err := hwaccel.NewProbe(cfg.Acceleration, cfg.NvidiaSMIPath, logger)
	if err != nil {
		return nil, fmt.Errorf("create acceleration probe: %w", err)
	}

	fetcher := media.NewFetcher(store, logger, media.WithTimeout(cfg.FetchTimeout))
	executor := media.NewFFmpegExecutor(logger)

	svc := job.NewService(
		fetcher,
		executor,
		probe,
		store,
		logger,
		job.WithFFmpegPath(cfg.FFmpegPath),
	)

	return &Dependencies{
		Service: svc,
		Probe:   probe,
		Storage: store,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil
}
