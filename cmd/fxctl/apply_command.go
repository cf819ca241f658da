package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/job"
)

var errEffectFailed = errors.New("effect failed")

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var (
		effectType string
		inputPath  string
		outputPath string
		params     []string
		pushToS3   bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply an effect to a local media file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseParams(params)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			_, deps, err := ctx.dependencies()
			if err != nil {
				return err
			}

			out := deps.Service.Process(cmd.Context(), job.Input{
				EffectType: effectType,
				MediaData:  base64.StdEncoding.EncodeToString(data),
				Params:     p,
				PushToS3:   pushToS3,
			})
			if !out.Success {
				return fmt.Errorf("%w: %s", errEffectFailed, out.Error)
			}

			result, err := base64.StdEncoding.DecodeString(out.Result)
			if err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			if err := os.WriteFile(outputPath, result, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Wrote %s (%s)\n", outputPath, humanize.Bytes(uint64(len(result))))
			if out.GPUUsed != nil {
				fmt.Fprintf(w, "GPU used: %t\n", *out.GPUUsed)
			}
			if out.ResultURL != "" {
				fmt.Fprintf(w, "Published: %s\n", out.ResultURL)
			}
			if out.Note != "" {
				fmt.Fprintf(w, "Note: %s\n", out.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&effectType, "effect", "e", "", "Effect type (cinematic_zoom, glitch_transition, vhs_effect, meme_fusion)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input media file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output media file")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Effect parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&pushToS3, "push-to-s3", false, "Also upload the result to S3")
	_ = cmd.MarkFlagRequired("effect")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// parseParams turns key=value pairs into effect params. Numeric values are
// stored as float64, matching what a JSON request would carry.
func parseParams(pairs []string) (effect.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	p := make(effect.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: want key=value", pair)
		}
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			p[key] = f
			continue
		}
		p[key] = value
	}
	return p, nil
}
