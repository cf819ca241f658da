package effect

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter names and defaults understood by the dispatcher.
const (
	ParamZoom      = "zoom"
	ParamIntensity = "intensity"

	DefaultZoom      = 1.2
	DefaultIntensity = 0.5
)

// Params carries effect-specific request parameters. Values come straight from JSON,
// so numbers usually arrive as float64.
type Params map[string]any

// Float returns the numeric value stored under key, or def when the key is absent
// or null. Numeric strings are accepted; anything else is ErrInvalidParams.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}

	f, err := toFloat(key, raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s=%v is not finite", ErrInvalidParams, key, raw)
	}
	return f, nil
}

func toFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidParams, key, v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidParams, key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidParams, key, raw)
	}
}

// ZoomFactor returns the zoom param, defaulting to 1.2. It must be positive.
func (p Params) ZoomFactor() (float64, error) {
	z, err := p.Float(ParamZoom, DefaultZoom)
	if err != nil {
		return 0, err
	}
	if z <= 0 {
		return 0, fmt.Errorf("%w: zoom must be positive, got %v", ErrInvalidParams, z)
	}
	return z, nil
}

// NoiseLevel converts the intensity param (default 0.5) into the integer noise
// strength used by the glitch filter: intensity*20, truncated.
func (p Params) NoiseLevel() (int, error) {
	intensity, err := p.Float(ParamIntensity, DefaultIntensity)
	if err != nil {
		return 0, err
	}
	if intensity < 0 {
		return 0, fmt.Errorf("%w: intensity must not be negative, got %v", ErrInvalidParams, intensity)
	}
	return int(intensity * 20), nil
}
