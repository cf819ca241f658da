package effect

import "errors"

// Error kinds shared by every stage of effect processing. Each stage wraps one of
// these with %w so the request boundary can classify a failure with errors.Is.
var (
	// ErrFetch is returned when the media reference cannot be turned into a local file:
	// bad URL, download failure, timeout or malformed base64.
	ErrFetch = errors.New("fetch media")
	// ErrUnknownEffect is returned for an effect_type outside the supported set.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrCommandFailed is returned when the external encoder exits non-zero.
	ErrCommandFailed = errors.New("command failed")
	// ErrIO is returned when a temporary file cannot be created, read or published.
	ErrIO = errors.New("io error")
	// ErrInvalidParams is returned when an effect parameter has the wrong type or range.
	ErrInvalidParams = errors.New("invalid params")
)
