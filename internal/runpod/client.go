package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Static errors for RunPod client operations.
var (
	// ErrJobURLRequired is returned when the job-take webhook URL is not provided.
	ErrJobURLRequired = errors.New("runpod: job webhook URL is required")
	// ErrOutputURLRequired is returned when the job-done webhook URL is not provided.
	ErrOutputURLRequired = errors.New("runpod: output webhook URL is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("runpod: job ID is required")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("runpod: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("runpod: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("runpod: request failed")
)

// JobSource hands out jobs and accepts their results.
type JobSource interface {
	// Next takes the next job. It returns nil, nil when no job is queued.
	Next(ctx context.Context) (*Job, error)

	// Complete reports the output of a finished job.
	Complete(ctx context.Context, jobID string, output any) error
}

var _ JobSource = (*HTTPClient)(nil)

// HTTPClient talks to the webhooks RunPod injects into a serverless worker.
type HTTPClient struct {
	jobURL      string
	outputURL   string
	apiKey      string
	podID       string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the worker API key sent in the Authorization header.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithPodID sets the worker ID substituted into the webhook URLs.
func WithPodID(id string) ClientOption {
	return func(hc *HTTPClient) {
		hc.podID = id
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(hc *HTTPClient) {
		hc.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseBackoff = d
	}
}

// NewClient creates a worker client for the given job-take and job-done URLs.
// Both may contain the RunPod placeholders $ID and $RUNPOD_POD_ID.
func NewClient(jobURL, outputURL string, opts ...ClientOption) (*HTTPClient, error) {
	if jobURL == "" {
		return nil, ErrJobURLRequired
	}
	if outputURL == "" {
		return nil, ErrOutputURLRequired
	}

	c := &HTTPClient{
		jobURL:      jobURL,
		outputURL:   outputURL,
		httpClient:  &http.Client{Timeout: 90 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Next takes the next job for this worker.
func (c *HTTPClient) Next(ctx context.Context) (*Job, error) {
	url := strings.ReplaceAll(c.jobURL, "$ID", c.podID)

	var job Job
	if err := c.doRequestWithRetry(ctx, http.MethodGet, url, nil, &job); err != nil {
		return nil, err
	}
	if job.ID == "" {
		return nil, nil
	}
	return &job, nil
}

// Complete posts output as the result of jobID.
func (c *HTTPClient) Complete(ctx context.Context, jobID string, output any) error {
	if jobID == "" {
		return ErrJobIDRequired
	}

	bodyBytes, err := json.Marshal(doneRequest{Output: output})
	if err != nil {
		return fmt.Errorf("runpod: marshal output: %w", err)
	}

	url := strings.ReplaceAll(c.outputURL, "$RUNPOD_POD_ID", c.podID)
	url = strings.ReplaceAll(url, "$ID", jobID)

	return c.doRequestWithRetry(ctx, http.MethodPost, url, bodyBytes, nil)
}

// doRequestWithRetry performs an HTTP request with exponential backoff retry.
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, method, url string, body []byte, result any) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("runpod: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}

		err := c.doRequest(ctx, method, url, body, result)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("runpod: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request. An empty or 204 response leaves
// result untouched.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("runpod: create request: %w", err)
	}

	// Worker webhooks take the raw key, not a bearer token.
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("runpod: request cancelled: %w", ctx.Err())
		}
		return &retryableError{err: fmt.Errorf("runpod: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("runpod: read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode >= 500 {
			return &retryableError{err: fmt.Errorf("%w %d: %s", ErrServerError, resp.StatusCode, string(respBody))}
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return &retryableError{err: fmt.Errorf("%w: %s", ErrRateLimited, string(respBody))}
		}
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("runpod: unmarshal response: %w", err)
	}
	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
