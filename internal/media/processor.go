// Package media turns media references into local files and runs the external
// encoder against them.
package media

import (
	"context"

	"github.com/maauso/mocky-effects/internal/effect"
)

// Fetcher materialises a media reference (inline base64 or http(s) URL) as a
// request-scoped temporary file.
type Fetcher interface {
	// Fetch returns the path of a new temporary file holding the raw media bytes.
	// The caller owns the file and must remove it. Failures wrap effect.ErrFetch.
	Fetch(ctx context.Context, ref string) (path string, err error)
}

// Executor runs an execution plan to completion.
type Executor interface {
	// Run executes plan synchronously. A non-zero exit returns a *CommandError
	// that matches effect.ErrCommandFailed.
	Run(ctx context.Context, plan effect.Plan) (Outcome, error)
}

// Outcome is the captured result of running a plan.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
