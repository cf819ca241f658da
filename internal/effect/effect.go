// Package effect defines the closed set of video effects, their parameters and the
// ffmpeg execution plans derived from them.
package effect

import "strings"

// Type identifies a video effect. The set is closed: anything that does not parse
// to one of the constants below is Unknown.
type Type string

const (
	// Unknown is the default arm for unrecognised identifiers.
	Unknown Type = ""
	// Zoom scales the video by a zoom factor.
	Zoom Type = "cinematic_zoom"
	// Glitch overlays temporal noise whose strength follows the intensity param.
	Glitch Type = "glitch_transition"
	// VHS applies a vintage curve plus light noise.
	VHS Type = "vhs_effect"
	// MemeFusion is a placeholder that echoes the input media unchanged.
	MemeFusion Type = "meme_fusion"
)

// Parse maps a wire identifier to a Type. Both the handler names (cinematic_zoom)
// and the catalog ids (cinematic-zoom) are accepted, case-insensitively.
func Parse(s string) Type {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch Type(key) {
	case Zoom:
		return Zoom
	case Glitch:
		return Glitch
	case VHS:
		return VHS
	case MemeFusion:
		return MemeFusion
	default:
		return Unknown
	}
}

// IsKnown reports whether t is one of the supported effects.
func (t Type) IsKnown() bool {
	return t != Unknown
}

// RequiresEncoder reports whether the effect is implemented by running ffmpeg.
func (t Type) RequiresEncoder() bool {
	switch t {
	case Zoom, Glitch, VHS:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	if t == Unknown {
		return "unknown"
	}
	return string(t)
}
