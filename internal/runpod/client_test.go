package runpod

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, srv *httptest.Server, opts ...ClientOption) *HTTPClient {
	t.Helper()
	opts = append([]ClientOption{
		WithAPIKey("worker-key"),
		WithPodID("pod-1"),
		WithBaseBackoff(time.Millisecond),
	}, opts...)

	client, err := NewClient(srv.URL+"/job-take/$ID", srv.URL+"/job-done/$RUNPOD_POD_ID/$ID", opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewClient_MissingURLs(t *testing.T) {
	if _, err := NewClient("", "https://done"); !errors.Is(err, ErrJobURLRequired) {
		t.Errorf("expected ErrJobURLRequired, got %v", err)
	}
	if _, err := NewClient("https://take", ""); !errors.Is(err, ErrOutputURLRequired) {
		t.Errorf("expected ErrOutputURLRequired, got %v", err)
	}
}

func TestClient_Next(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/job-take/pod-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "worker-key" {
			t.Errorf("expected raw API key in Authorization, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"job-123","input":{"effect_type":"vhs_effect"}}`))
	}))
	defer server.Close()

	job, err := newTestClient(t, server).Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job == nil {
		t.Fatal("expected a job")
	}
	if job.ID != "job-123" {
		t.Errorf("expected job ID 'job-123', got %q", job.ID)
	}
	if string(job.Input) != `{"effect_type":"vhs_effect"}` {
		t.Errorf("unexpected input: %s", job.Input)
	}
}

func TestClient_Next_NoJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	job, err := newTestClient(t, server).Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job != nil {
		t.Errorf("expected no job, got %+v", job)
	}
}

func TestClient_Complete(t *testing.T) {
	var received map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/job-done/pod-1/job-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	output := map[string]any{"success": false, "error": "boom", "effect": "vhs_effect"}
	if err := newTestClient(t, server).Complete(context.Background(), "job-123", output); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := received["output"]; !ok {
		t.Fatalf("expected output field, got %v", received)
	}
	var got map[string]any
	_ = json.Unmarshal(received["output"], &got)
	if got["error"] != "boom" {
		t.Errorf("expected error 'boom', got %v", got["error"])
	}
}

func TestClient_Complete_MissingJobID(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	err := newTestClient(t, server).Complete(context.Background(), "", nil)
	if !errors.Is(err, ErrJobIDRequired) {
		t.Errorf("expected ErrJobIDRequired, got %v", err)
	}
}

func TestClient_RetryOnServerError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":"job-1","input":{}}`))
	}))
	defer server.Close()

	job, err := newTestClient(t, server).Next(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job == nil || job.ID != "job-1" {
		t.Errorf("expected job-1, got %+v", job)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestClient_RetryOnRateLimit(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := newTestClient(t, server).Complete(context.Background(), "job-1", "ok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).Next(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected ErrRequestFailed, got %v", err)
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestClient_MaxRetriesExceeded(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(t, server, WithMaxRetries(2)).Next(context.Background())
	if !errors.Is(err, ErrServerError) {
		t.Errorf("expected ErrServerError, got %v", err)
	}
	if atomic.LoadInt32(&attempts) != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, server).Next(ctx)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if isRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !isRetryable(&retryableError{err: ErrServerError}) {
		t.Error("retryableError should be retryable")
	}
	wrapped := &retryableError{err: ErrRateLimited}
	if !errors.Is(wrapped, ErrRateLimited) {
		t.Error("retryableError should unwrap to its cause")
	}
}
