// Package main binds the effect handler to AWS Lambda.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/maauso/mocky-effects/internal/bootstrap"
	"github.com/maauso/mocky-effects/internal/config"
	"github.com/maauso/mocky-effects/internal/job"
)

type eventHandler interface {
	Handle(ctx context.Context, ev job.Event) job.Output
}

// Handler is the Lambda function signature. It never returns an error:
// failures are reported in the output envelope.
type Handler func(ctx context.Context, ev job.Event) (job.Output, error)

// NewHandler adapts svc to the Lambda runtime.
func NewHandler(svc eventHandler) Handler {
	return func(ctx context.Context, ev job.Event) (job.Output, error) {
		return svc.Handle(ctx, ev), nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lambda.Start(NewHandler(deps.Service))
}
