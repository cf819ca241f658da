// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrInvalidAcceleration is returned when ACCELERATION is not auto, on or off.
	ErrInvalidAcceleration = errors.New("config: ACCELERATION must be one of auto, on, off")
	// ErrJobWebhookRequired is returned in worker mode when RUNPOD_WEBHOOK_GET_JOB is not set.
	ErrJobWebhookRequired = errors.New("config: RUNPOD_WEBHOOK_GET_JOB is required")
	// ErrOutputWebhookRequired is returned in worker mode when RUNPOD_WEBHOOK_POST_OUTPUT is not set.
	ErrOutputWebhookRequired = errors.New("config: RUNPOD_WEBHOOK_POST_OUTPUT is required")
)

// Acceleration modes.
const (
	AccelerationAuto = "auto"
	AccelerationOn   = "on"
	AccelerationOff  = "off"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8888" json:"port"`

	// Storage settings
	TempDir string `env:"TEMP_DIR, default=/tmp/mocky" json:"temp_dir"`

	// Processing settings
	FFmpegPath    string        `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	NvidiaSMIPath string        `env:"NVIDIA_SMI_PATH, default=nvidia-smi" json:"nvidia_smi_path"`
	Acceleration  string        `env:"ACCELERATION, default=auto" json:"acceleration"` // "auto", "on", "off"
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT, default=60s" json:"fetch_timeout"`

	// RunPod worker settings, injected by the RunPod host
	RunPodJobURL    string `env:"RUNPOD_WEBHOOK_GET_JOB" json:"runpod_job_url,omitempty"`
	RunPodOutputURL string `env:"RUNPOD_WEBHOOK_POST_OUTPUT" json:"runpod_output_url,omitempty"`
	RunPodAPIKey    string `env:"RUNPOD_AI_API_KEY" json:"-"` // Masked in JSON
	RunPodPodID     string `env:"RUNPOD_POD_ID" json:"runpod_pod_id,omitempty"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings shared by every entry point.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Acceleration) {
	case AccelerationAuto, AccelerationOn, AccelerationOff:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidAcceleration, c.Acceleration)
	}
}

// ValidateWorker checks the settings required to pull jobs from RunPod.
func (c *Config) ValidateWorker() error {
	if c.RunPodJobURL == "" {
		return ErrJobWebhookRequired
	}
	if c.RunPodOutputURL == "" {
		return ErrOutputWebhookRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, FFmpegPath: %s, Acceleration: %s, FetchTimeout: %s, RunPodPodID: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TempDir,
		c.FFmpegPath,
		c.Acceleration,
		c.FetchTimeout,
		c.RunPodPodID,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
