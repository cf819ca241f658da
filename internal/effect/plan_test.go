package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opts(accelerated bool) PlanOptions {
	return PlanOptions{
		InputPath:   "/tmp/in.mp4",
		OutputPath:  "/tmp/out.mp4",
		Accelerated: accelerated,
	}
}

// argAfter returns the argument following flag, or "" when flag is absent.
func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestBuildPlan_ZoomSoftware(t *testing.T) {
	plan, err := BuildPlan(Zoom, nil, opts(false))
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", plan.Command)
	assert.Equal(t, "/tmp/out.mp4", plan.OutputPath)
	assert.False(t, plan.Accelerated)
	assert.Equal(t, []string{
		"-i", "/tmp/in.mp4",
		"-vf", "scale=iw*1.2:ih*1.2",
		"-c:v", "libx264",
		"-preset", "fast",
		"-y", "/tmp/out.mp4",
	}, plan.Args)
}

func TestBuildPlan_ZoomAccelerated(t *testing.T) {
	plan, err := BuildPlan(Zoom, Params{"zoom": 1.5}, opts(true))
	require.NoError(t, err)

	assert.True(t, plan.Accelerated)
	assert.Equal(t, []string{
		"-hwaccel", "cuda",
		"-hwaccel_output_format", "cuda",
		"-i", "/tmp/in.mp4",
		"-vf", "scale_cuda=iw*1.5:ih*1.5",
		"-c:v", "h264_nvenc",
		"-preset", "fast",
		"-y", "/tmp/out.mp4",
	}, plan.Args)
}

func TestBuildPlan_Glitch(t *testing.T) {
	t.Run("default intensity gives noise level 10", func(t *testing.T) {
		plan, err := BuildPlan(Glitch, Params{"intensity": 0.5}, opts(false))
		require.NoError(t, err)
		assert.Equal(t, "noise=alls=10:allf=t", argAfter(plan.Args, "-vf"))
		assert.Equal(t, "libx264", argAfter(plan.Args, "-c:v"))
	})

	t.Run("accelerated keeps filter on CPU frames", func(t *testing.T) {
		plan, err := BuildPlan(Glitch, Params{"intensity": 1}, opts(true))
		require.NoError(t, err)
		assert.Equal(t, "noise=alls=20:allf=t", argAfter(plan.Args, "-vf"))
		assert.Equal(t, "cuda", argAfter(plan.Args, "-hwaccel"))
		assert.NotContains(t, plan.Args, "-hwaccel_output_format")
		assert.Equal(t, "h264_nvenc", argAfter(plan.Args, "-c:v"))
	})
}

func TestBuildPlan_VHS(t *testing.T) {
	plan, err := BuildPlan(VHS, Params{"ignored": true}, opts(false))
	require.NoError(t, err)
	assert.Equal(t, "curves=vintage,noise=alls=10:allf=t", argAfter(plan.Args, "-vf"))
}

func TestBuildPlan_CustomBinary(t *testing.T) {
	o := opts(false)
	o.Binary = "/opt/ffmpeg/bin/ffmpeg"

	plan, err := BuildPlan(VHS, nil, o)
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", plan.Command)
}

func TestBuildPlan_Rejected(t *testing.T) {
	t.Run("unknown effect", func(t *testing.T) {
		_, err := BuildPlan(Unknown, nil, opts(false))
		assert.ErrorIs(t, err, ErrUnknownEffect)
	})

	t.Run("meme fusion has no plan", func(t *testing.T) {
		_, err := BuildPlan(MemeFusion, nil, opts(false))
		assert.ErrorIs(t, err, ErrUnknownEffect)
	})

	t.Run("invalid zoom", func(t *testing.T) {
		_, err := BuildPlan(Zoom, Params{"zoom": "huge"}, opts(false))
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestCheckParams(t *testing.T) {
	assert.NoError(t, Zoom.CheckParams(nil))
	assert.NoError(t, Glitch.CheckParams(Params{"intensity": "0.8"}))
	assert.NoError(t, MemeFusion.CheckParams(Params{"zoom": "anything"}))
	assert.ErrorIs(t, Zoom.CheckParams(Params{"zoom": -1.0}), ErrInvalidParams)
	assert.ErrorIs(t, Glitch.CheckParams(Params{"intensity": -0.1}), ErrInvalidParams)
}
