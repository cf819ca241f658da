// Package hwaccel reports whether hardware-accelerated encoding can be used on the
// current host.
package hwaccel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/maauso/mocky-effects/internal/metrics"
)

// Acceleration modes accepted by NewProbe.
const (
	ModeAuto = "auto"
	ModeOn   = "on"
	ModeOff  = "off"
)

// ErrInvalidMode is returned by NewProbe for an unrecognised mode.
var ErrInvalidMode = errors.New("hwaccel: mode must be one of auto, on, off")

// Probe answers whether acceleration is usable right now. Implementations never
// return an error: any failure means "unavailable".
type Probe interface {
	Available(ctx context.Context) bool
}

// NvidiaSMI probes for a usable NVIDIA GPU by running nvidia-smi and checking that
// it exits successfully. The result is not cached.
type NvidiaSMI struct {
	path   string
	logger *slog.Logger
}

// NewNvidiaSMI creates a probe. If path is empty it defaults to "nvidia-smi" (found
// via PATH).
func NewNvidiaSMI(path string, logger *slog.Logger) *NvidiaSMI {
	if path == "" {
		path = "nvidia-smi"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NvidiaSMI{path: path, logger: logger}
}

// Available runs the diagnostic tool and reports whether it exited with status 0.
func (p *NvidiaSMI) Available(ctx context.Context) bool {
	// #nosec G204 - path comes from configuration, not request input
	cmd := exec.CommandContext(ctx, p.path)
	err := cmd.Run()
	if err != nil {
		p.logger.Debug("acceleration unavailable",
			slog.String("probe", p.path),
			slog.String("error", err.Error()),
		)
		metrics.AccelerationProbesTotal.WithLabelValues("unavailable").Inc()
		return false
	}
	metrics.AccelerationProbesTotal.WithLabelValues("available").Inc()
	return true
}

// Static is a Probe with a fixed answer.
type Static bool

// Available returns the fixed answer.
func (s Static) Available(context.Context) bool {
	return bool(s)
}

// NewProbe builds the probe selected by mode: "on" and "off" force the answer,
// "auto" (or empty) probes with nvidia-smi at smiPath.
func NewProbe(mode, smiPath string, logger *slog.Logger) (Probe, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeAuto, "":
		return NewNvidiaSMI(smiPath, logger), nil
	case ModeOn:
		return Static(true), nil
	case ModeOff:
		return Static(false), nil
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMode, mode)
	}
}
