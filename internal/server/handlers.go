package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/job"
	"github.com/maauso/mocky-effects/internal/job/id"
	"github.com/maauso/mocky-effects/internal/runpod"
)

// Canned values returned by the cinematic zoom stub.
const (
	stubProcessedVideoURL = "https://example.com/processed_video.mp4"
	stubProcessingTime    = "5.2s"
	defaultZoomStrength   = 1.0
)

// EffectService runs one effect request to completion.
type EffectService interface {
	HandleRaw(ctx context.Context, jobID string, raw json.RawMessage) job.Output
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   EffectService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service EffectService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Root handles GET / requests.
func (h *Handlers) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Welcome to the Mocky API!"})
}

// Ping handles GET /ping requests.
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "pong"})
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// ListEffects handles GET /effects requests.
func (h *Handlers) ListEffects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, EffectsResponse{Effects: effect.Catalog()})
}

// CinematicZoom handles POST /effects/cinematic-zoom. It performs no processing
// and returns a canned result.
func (h *Handlers) CinematicZoom(w http.ResponseWriter, r *http.Request) {
	var req CinematicZoomRequest
	if !h.decode(w, r, &req) {
		return
	}

	strength := defaultZoomStrength
	if req.Strength != nil {
		strength = *req.Strength
	}

	writeJSON(w, http.StatusOK, CinematicZoomResponse{
		Status:            "success",
		ProcessedVideoURL: stubProcessedVideoURL,
		OriginalURL:       req.VideoURL,
		Strength:          strength,
		ProcessingTime:    stubProcessingTime,
	})
}

// RunSync handles POST /runsync requests by running the effect handler inline.
// Effect failures are reported in the output envelope with status FAILED.
func (h *Handlers) RunSync(w http.ResponseWriter, r *http.Request) {
	var req RunSyncRequest
	if !h.decode(w, r, &req) {
		return
	}

	jobID := req.ID
	if jobID == "" {
		jobID = id.Generate()
	}

	out := h.service.HandleRaw(r.Context(), jobID, req.Input)

	status := runpod.StatusCompleted
	if !out.Success {
		status = runpod.StatusFailed
	}

	writeJSON(w, http.StatusOK, RunSyncResponse{
		ID:     jobID,
		Status: string(status),
		Output: out,
	})
}

// decode reads and validates a JSON body, writing the error response itself.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
