package effect

import (
	"fmt"
	"strconv"
)

// DefaultBinary is the encoder command used when PlanOptions.Binary is empty.
const DefaultBinary = "ffmpeg"

// Plan is a concrete external-command invocation derived from a request.
type Plan struct {
	// Command is the executable to run.
	Command string
	// Args is the ordered argument list passed to Command.
	Args []string
	// OutputPath is where the command writes its result.
	OutputPath string
	// Accelerated reports whether the CUDA/NVENC template was selected.
	Accelerated bool
}

// PlanOptions describes where a plan reads and writes, and which template to use.
type PlanOptions struct {
	Binary      string
	InputPath   string
	OutputPath  string
	Accelerated bool
}

// BuildPlan maps an effect and its params to an ffmpeg invocation. Effects that are
// not implemented by the encoder (MemeFusion, Unknown) are rejected with
// ErrUnknownEffect so they can never reach the executor.
func BuildPlan(t Type, p Params, opts PlanOptions) (Plan, error) {
	if !t.RequiresEncoder() {
		return Plan{}, fmt.Errorf("%w: %s has no encoder plan", ErrUnknownEffect, t)
	}

	filter, err := videoFilter(t, p, opts.Accelerated)
	if err != nil {
		return Plan{}, err
	}

	binary := opts.Binary
	if binary == "" {
		binary = DefaultBinary
	}

	return Plan{
		Command:     binary,
		Args:        encoderArgs(opts.InputPath, opts.OutputPath, filter, opts.Accelerated, t == Zoom),
		OutputPath:  opts.OutputPath,
		Accelerated: opts.Accelerated,
	}, nil
}

// encoderArgs is the single argument template shared by every effect. The
// accelerated variant decodes with CUDA and encodes with NVENC; scale_cuda also
// needs the decoded frames to stay in GPU memory.
func encoderArgs(input, output, filter string, accelerated, gpuFilter bool) []string {
	var args []string
	if accelerated {
		args = append(args, "-hwaccel", "cuda")
		if gpuFilter {
			args = append(args, "-hwaccel_output_format", "cuda")
		}
	}

	codec := "libx264"
	if accelerated {
		codec = "h264_nvenc"
	}

	return append(args,
		"-i", input,
		"-vf", filter,
		"-c:v", codec,
		"-preset", "fast",
		"-y",
		output,
	)
}

// videoFilter returns the -vf expression for an encoder-backed effect.
func videoFilter(t Type, p Params, accelerated bool) (string, error) {
	switch t {
	case Zoom:
		z, err := p.ZoomFactor()
		if err != nil {
			return "", err
		}
		scale := "scale"
		if accelerated {
			scale = "scale_cuda"
		}
		factor := formatFactor(z)
		return fmt.Sprintf("%s=iw*%s:ih*%s", scale, factor, factor), nil
	case Glitch:
		level, err := p.NoiseLevel()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("noise=alls=%d:allf=t", level), nil
	case VHS:
		return "curves=vintage,noise=alls=10:allf=t", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownEffect, t)
	}
}

func formatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// CheckParams validates the params of an encoder-backed effect without building
// a plan.
func (t Type) CheckParams(p Params) error {
	if !t.RequiresEncoder() {
		return nil
	}
	_, err := videoFilter(t, p, false)
	return err
}
