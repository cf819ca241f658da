package runpod

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// fakeSource serves a fixed list of jobs, then cancels the worker.
type fakeSource struct {
	mu        sync.Mutex
	jobs      []*Job
	failFirst bool
	cancel    context.CancelFunc
	completed map[string]any
	doneCtxOK bool
}

func (f *fakeSource) Next(_ context.Context) (*Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failFirst {
		f.failFirst = false
		return nil, ErrServerError
	}
	if len(f.jobs) == 0 {
		f.cancel()
		return nil, nil
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

func (f *fakeSource) Complete(ctx context.Context, jobID string, output any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.doneCtxOK = ctx.Err() == nil
	f.completed[jobID] = output
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorker_RunProcessesJobsInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		jobs: []*Job{
			{ID: "a", Input: json.RawMessage(`{"n":1}`)},
			{ID: "b", Input: json.RawMessage(`{"n":2}`)},
		},
		failFirst: true,
		cancel:    cancel,
		completed: map[string]any{},
	}

	var seen []string
	handler := func(_ context.Context, job Job) any {
		seen = append(seen, job.ID)
		return string(job.Input)
	}

	w := NewWorker(source, discardLogger(), WithIdleDelay(time.Millisecond), WithErrorDelay(time.Millisecond))
	if err := w.Run(ctx, handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("expected jobs a, b in order, got %v", seen)
	}
	if source.completed["a"] != `{"n":1}` || source.completed["b"] != `{"n":2}` {
		t.Errorf("unexpected outputs: %v", source.completed)
	}
}

func TestWorker_ReportsAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		jobs:      []*Job{{ID: "slow"}},
		cancel:    cancel,
		completed: map[string]any{},
	}

	handler := func(context.Context, Job) any {
		cancel()
		return "done"
	}

	w := NewWorker(source, discardLogger(), WithIdleDelay(time.Millisecond))
	if err := w.Run(ctx, handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.completed["slow"] != "done" {
		t.Errorf("expected output to be reported, got %v", source.completed)
	}
	if !source.doneCtxOK {
		t.Error("expected Complete to receive a live context")
	}
}

func TestWorker_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{cancel: cancel, completed: map[string]any{}}
	called := false

	err := NewWorker(source, nil).Run(ctx, func(context.Context, Job) any {
		called = true
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("handler should not run after cancellation")
	}
}
