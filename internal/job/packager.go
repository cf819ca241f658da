package job

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/media"
	"github.com/maauso/mocky-effects/internal/storage"
)

// packageResult reads the plan output, encodes it and optionally publishes it.
func (s *Service) packageResult(ctx context.Context, logger *slog.Logger, reqID string, in Input, plan effect.Plan) (Output, error) {
	r, err := s.store.LoadTemp(ctx, plan.OutputPath)
	if err != nil {
		return Output{}, fmt.Errorf("%w: open output: %w", effect.ErrIO, err)
	}
	data, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return Output{}, fmt.Errorf("%w: read output: %w", effect.ErrIO, err)
	}
	if len(data) == 0 {
		return Output{}, fmt.Errorf("%w: %s produced an empty output", effect.ErrIO, plan.Command)
	}

	gpuUsed := plan.Accelerated
	out := Output{
		Success: true,
		Result:  base64.StdEncoding.EncodeToString(data),
		Effect:  in.EffectType,
		Params:  in.Params,
		GPUUsed: &gpuUsed,
	}

	if in.PushToS3 {
		key := fmt.Sprintf("effects/%s%s", reqID, filepath.Ext(plan.OutputPath))
		url, err := s.store.UploadToS3(ctx, key, bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, storage.ErrS3NotConfigured) {
				return Output{}, fmt.Errorf("%w: push_to_s3 requested but %w", effect.ErrIO, err)
			}
			return Output{}, fmt.Errorf("%w: %w", effect.ErrIO, err)
		}
		out.ResultURL = url
	}

	logger.Info("effect applied",
		slog.String("output_size", humanize.Bytes(uint64(len(data)))),
		slog.Bool("gpu_used", gpuUsed),
		slog.Bool("pushed_to_s3", out.ResultURL != ""),
	)
	return out, nil
}

// failure builds the failure envelope for err. The command's stderr is used as
// the message when the encoder failed.
func failure(effectType string, err error) Output {
	msg := err.Error()
	var cmdErr *media.CommandError
	if errors.As(err, &cmdErr) {
		msg = fmt.Sprintf("%s: %s", effect.ErrCommandFailed, cmdErr.Diagnostic())
	}
	return Output{
		Success: false,
		Error:   msg,
		Effect:  effectType,
	}
}

// cleanup removes the request's temporary files. Failures are logged only.
func (s *Service) cleanup(logger *slog.Logger, paths []string) {
	if len(paths) == 0 {
		return
	}
	// Runs on every exit path, including after ctx is cancelled.
	if err := s.store.CleanupTemp(context.Background(), paths); err != nil {
		logger.Warn("failed to remove temporary files",
			slog.String("error", err.Error()),
		)
	}
}
