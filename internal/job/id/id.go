// Package id provides unique identifier generation for effect requests.
package id

import (
	"github.com/google/uuid"
)

// Prefix marks identifiers generated by this service.
const Prefix = "fx-"

// Generate creates a new unique request ID.
// Format: fx-<uuid v4>
// Example: fx-9b2f8f1e-3c1d-4c55-9d1e-4f0f5b2d6a10
func Generate() string {
	return Prefix + uuid.NewString()
}

// Short returns the first 8 hex characters of a generated ID, suitable for
// file name hints. Unknown formats are returned unchanged.
func Short(s string) string {
	raw := s
	if len(raw) > len(Prefix) && raw[:len(Prefix)] == Prefix {
		raw = raw[len(Prefix):]
	}
	if _, err := uuid.Parse(raw); err != nil {
		return s
	}
	return raw[:8]
}
