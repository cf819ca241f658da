// Package runpod implements the worker side of the RunPod serverless protocol:
// pulling jobs from the job-take webhook and reporting results to the job-done
// webhook.
package runpod

import "encoding/json"

// Status represents the status of a RunPod job.
type Status string

// RunPod job statuses aligned with the RunPod API.
const (
	StatusInQueue    Status = "IN_QUEUE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Job is a unit of work handed out by the job-take webhook.
type Job struct {
	ID    string          `json:"id"`
	Input json.RawMessage `json:"input"`
}

// doneRequest is the body posted to the job-done webhook.
type doneRequest struct {
	Output any `json:"output"`
}
