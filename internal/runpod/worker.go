package runpod

import (
	"context"
	"log/slog"
	"time"
)

// HandlerFunc processes one job and returns its output. It must not fail:
// errors are part of the output.
type HandlerFunc func(ctx context.Context, job Job) any

// Worker pulls jobs from a JobSource one at a time.
type Worker struct {
	source          JobSource
	logger          *slog.Logger
	idleDelay       time.Duration
	errorDelay      time.Duration
	completeTimeout time.Duration
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithIdleDelay sets the pause after an empty job-take response.
func WithIdleDelay(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.idleDelay = d
	}
}

// WithErrorDelay sets the pause after a failed job-take request.
func WithErrorDelay(d time.Duration) WorkerOption {
	return func(w *Worker) {
		w.errorDelay = d
	}
}

// NewWorker creates a new Worker.
func NewWorker(source JobSource, logger *slog.Logger, opts ...WorkerOption) *Worker {
	if logger == nil {
		logger = slog.Default()
	}

	w := &Worker{
		source:          source,
		logger:          logger,
		idleDelay:       time.Second,
		errorDelay:      5 * time.Second,
		completeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs sequentially until ctx is cancelled. A job that is already
// running when ctx is cancelled still has its output reported.
func (w *Worker) Run(ctx context.Context, handler HandlerFunc) error {
	w.logger.Info("worker started")

	for {
		if ctx.Err() != nil {
			w.logger.Info("worker stopped")
			return nil
		}

		job, err := w.source.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.logger.Error("failed to take job", slog.String("error", err.Error()))
			}
			w.sleep(ctx, w.errorDelay)
			continue
		}
		if job == nil {
			w.sleep(ctx, w.idleDelay)
			continue
		}

		w.process(ctx, *job, handler)
	}
}

func (w *Worker) process(ctx context.Context, job Job, handler HandlerFunc) {
	logger := w.logger.With(slog.String("job_id", job.ID))
	start := time.Now()

	output := handler(ctx, job)

	doneCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.completeTimeout)
	defer cancel()

	if err := w.source.Complete(doneCtx, job.ID, output); err != nil {
		logger.Error("failed to report job output",
			slog.String("error", err.Error()),
		)
		return
	}

	logger.Info("job completed",
		slog.Duration("duration", time.Since(start)),
	)
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
