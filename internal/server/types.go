// Package server provides the HTTP service for the Mocky effects API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

import (
	"encoding/json"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/job"
)

// MessageResponse is a plain message reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}

// EffectsResponse lists the advertised effects.
type EffectsResponse struct {
	Effects []effect.Descriptor `json:"effects"`
}

// CinematicZoomRequest is the HTTP request body for the cinematic zoom stub.
type CinematicZoomRequest struct {
	// VideoURL is the source video.
	VideoURL string `json:"video_url" validate:"required"`
	// Strength defaults to 1.0 when omitted.
	Strength *float64 `json:"strength,omitempty"`
}

// CinematicZoomResponse is the canned reply of the cinematic zoom stub.
type CinematicZoomResponse struct {
	Status            string  `json:"status"`
	ProcessedVideoURL string  `json:"processed_video_url"`
	OriginalURL       string  `json:"original_url"`
	Strength          float64 `json:"strength"`
	ProcessingTime    string  `json:"processing_time"`
}

// RunSyncRequest mirrors the RunPod /runsync request body.
type RunSyncRequest struct {
	// ID is optional; one is generated when empty.
	ID string `json:"id,omitempty"`
	// Input is the raw effect request.
	Input json.RawMessage `json:"input" validate:"required"`
}

// RunSyncResponse mirrors the RunPod /runsync response body.
type RunSyncResponse struct {
	ID     string     `json:"id"`
	Status string     `json:"status"`
	Output job.Output `json:"output"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}
