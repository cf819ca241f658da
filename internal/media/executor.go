package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/maauso/mocky-effects/internal/effect"
)

// Compile-time check that FFmpegExecutor implements Executor.
var _ Executor = (*FFmpegExecutor)(nil)

// FFmpegExecutor runs execution plans as local processes.
type FFmpegExecutor struct {
	logger *slog.Logger
}

// NewFFmpegExecutor creates a new FFmpegExecutor.
func NewFFmpegExecutor(logger *slog.Logger) *FFmpegExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegExecutor{logger: logger}
}

// pipeDrainDelay bounds how long Run waits for stdout/stderr to close after the
// process has exited, e.g. when a grandchild still holds the pipes.
const pipeDrainDelay = 5 * time.Second

// Run executes the plan and blocks until the process exits. Once started the
// encoder runs to its own completion: cancelling ctx does not stop it.
func (e *FFmpegExecutor) Run(ctx context.Context, plan effect.Plan) (Outcome, error) {
	if plan.Command == "" {
		return Outcome{ExitCode: -1}, fmt.Errorf("%w: empty command", effect.ErrCommandFailed)
	}

	// #nosec G204 - command comes from configuration and args from a fixed template
	cmd := exec.CommandContext(context.WithoutCancel(ctx), plan.Command, plan.Args...)
	cmd.WaitDelay = pipeDrainDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	outcome := Outcome{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	e.logger.Debug("command finished",
		slog.String("command", plan.Command),
		slog.Int("exit_code", outcome.ExitCode),
		slog.Bool("accelerated", plan.Accelerated),
		slog.Duration("duration", time.Since(start)),
	)

	if err != nil {
		return outcome, &CommandError{
			Command:  plan.Command,
			Args:     plan.Args,
			ExitCode: outcome.ExitCode,
			Stderr:   outcome.Stderr,
			Err:      err,
		}
	}

	return outcome, nil
}

// CommandError represents a failed external command, including its stderr output.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s error (exit %d): %v\nargs: %v\nstderr: %s",
		e.Command, e.ExitCode, e.Err, e.Args, strings.TrimSpace(e.Stderr))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is makes every CommandError match effect.ErrCommandFailed.
func (e *CommandError) Is(target error) bool {
	return target == effect.ErrCommandFailed
}

// Diagnostic returns the captured stderr, or the underlying error when the
// command produced no output.
func (e *CommandError) Diagnostic() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return e.Err.Error()
}
