package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/hwaccel"
	"github.com/maauso/mocky-effects/internal/job/id"
	"github.com/maauso/mocky-effects/internal/media"
	"github.com/maauso/mocky-effects/internal/metrics"
	"github.com/maauso/mocky-effects/internal/storage"
)

// Service is the effect request handler. It holds only read-only dependencies;
// every call runs to completion independently and leaves no files behind.
type Service struct {
	fetcher    media.Fetcher
	executor   media.Executor
	probe      hwaccel.Probe
	store      storage.Storage
	validate   *validator.Validate
	logger     *slog.Logger
	ffmpegPath string
}

// Option configures a Service.
type Option func(*Service)

// WithFFmpegPath sets the encoder binary used in execution plans.
func WithFFmpegPath(path string) Option {
	return func(s *Service) {
		s.ffmpegPath = path
	}
}

// NewService creates a new Service.
func NewService(
	fetcher media.Fetcher,
	executor media.Executor,
	probe hwaccel.Probe,
	store storage.Storage,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		fetcher:    fetcher,
		executor:   executor,
		probe:      probe,
		store:      store,
		validate:   validator.New(),
		logger:     logger,
		ffmpegPath: effect.DefaultBinary,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process handles a single request that has no host-assigned ID.
func (s *Service) Process(ctx context.Context, in Input) Output {
	return s.Handle(ctx, Event{Input: in})
}

// HandleRaw decodes a raw input object and handles it. Malformed JSON yields a
// failure envelope rather than an error.
func (s *Service) HandleRaw(ctx context.Context, jobID string, raw json.RawMessage) Output {
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		s.logger.Warn("failed to decode job input",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return failure("", fmt.Errorf("invalid input: %w", err))
	}
	return s.Handle(ctx, Event{ID: jobID, Input: in})
}

// Handle processes one effect request and always returns an envelope. Errors are
// reported inside the envelope, never to the caller.
func (s *Service) Handle(ctx context.Context, ev Event) Output {
	reqID := ev.ID
	if reqID == "" {
		reqID = id.Generate()
	}

	in := ev.Input
	logger := s.logger.With(
		slog.String("job_id", reqID),
		slog.String("effect", in.EffectType),
	)
	logger.Info("processing effect")

	start := time.Now()
	out, err := s.run(ctx, logger, reqID, in)

	status := "success"
	if err != nil {
		status = "failure"
		out = failure(in.EffectType, err)
		logger.Error("effect failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
	}

	label := effect.Parse(in.EffectType).String()
	metrics.EffectRequestsTotal.WithLabelValues(label, status).Inc()
	metrics.EffectDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	return out
}

// run is the fetch → dispatch → execute → package pipeline. Temporary files are
// released by the deferred cleanup before run returns.
func (s *Service) run(ctx context.Context, logger *slog.Logger, reqID string, in Input) (Output, error) {
	if err := s.validate.Struct(in); err != nil {
		return Output{}, fmt.Errorf("%w: effect_type is required", effect.ErrUnknownEffect)
	}

	t := effect.Parse(in.EffectType)
	switch {
	case t == effect.MemeFusion:
		logger.Info("meme fusion is a placeholder, returning original media")
		return Output{
			Success: true,
			Result:  in.MediaData,
			Effect:  in.EffectType,
			Note:    MemeFusionNote,
		}, nil
	case !t.RequiresEncoder():
		return Output{}, fmt.Errorf("%w: %s", effect.ErrUnknownEffect, in.EffectType)
	}

	if err := t.CheckParams(in.Params); err != nil {
		return Output{}, err
	}

	var temps []string
	defer func() { s.cleanup(logger, temps) }()

	inputPath, err := s.fetcher.Fetch(ctx, in.MediaData)
	if err != nil {
		return Output{}, err
	}
	temps = append(temps, inputPath)

	outputPath, err := s.store.CreateTemp(ctx, "output_"+id.Short(reqID), media.DefaultExtension)
	if err != nil {
		return Output{}, fmt.Errorf("%w: reserve output: %w", effect.ErrIO, err)
	}
	temps = append(temps, outputPath)

	plan, err := effect.BuildPlan(t, in.Params, effect.PlanOptions{
		Binary:      s.ffmpegPath,
		InputPath:   inputPath,
		OutputPath:  outputPath,
		Accelerated: s.probe.Available(ctx),
	})
	if err != nil {
		return Output{}, err
	}

	logger.Debug("execution plan ready",
		slog.String("command", plan.Command),
		slog.Any("args", plan.Args),
		slog.Bool("accelerated", plan.Accelerated),
	)

	if _, err := s.executor.Run(ctx, plan); err != nil {
		return Output{}, err
	}

	return s.packageResult(ctx, logger, reqID, in, plan)
}
