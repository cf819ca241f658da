// Package job implements the single effect request handler: it fetches the input
// media, dispatches the effect to an execution plan, runs it and packages the
// result into the response envelope.
package job

import (
	"github.com/maauso/mocky-effects/internal/effect"
)

// Event is the invocation payload delivered by the serverless host.
type Event struct {
	// ID is the host-assigned job identifier, if any.
	ID string `json:"id,omitempty"`
	// Input is the effect request.
	Input Input `json:"input"`
}

// Input is an effect request. It is never modified after decoding.
type Input struct {
	// EffectType selects the effect (cinematic_zoom, glitch_transition, vhs_effect, meme_fusion).
	EffectType string `json:"effect_type" validate:"required"`
	// MediaData is inline base64 media or an http(s) URL.
	MediaData string `json:"media_data"`
	// Params holds effect-specific parameters such as zoom or intensity.
	Params effect.Params `json:"params,omitempty"`
	// PushToS3 uploads the result and returns its URL alongside the base64 payload.
	PushToS3 bool `json:"push_to_s3,omitempty"`
}

// Output is the response envelope. Success and failure share one shape:
// failures carry success=false, error and the echoed effect.
type Output struct {
	Success   bool          `json:"success"`
	Result    string        `json:"result,omitempty"`
	ResultURL string        `json:"result_url,omitempty"`
	Effect    string        `json:"effect"`
	Params    effect.Params `json:"params,omitempty"`
	GPUUsed   *bool         `json:"gpu_used,omitempty"`
	Note      string        `json:"note,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// MemeFusionNote marks the placeholder response of the meme_fusion effect.
const MemeFusionNote = "Placeholder implementation: meme fusion is not implemented, original media returned"
