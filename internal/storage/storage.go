// Package storage provides request-scoped temporary files and optional S3
// publishing for effect results.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for temporary and published file storage.
// Temporary files are owned by a single request and must be removed with
// CleanupTemp before that request's response is returned.
type Storage interface {
	// SaveTemp streams data into a new, uniquely named temporary file and returns
	// its path and size. name is a filename hint; ext (".mp4") is appended as-is.
	SaveTemp(ctx context.Context, name, ext string, data io.Reader) (path string, size int64, err error)

	// CreateTemp reserves an empty, uniquely named temporary file for a producer
	// such as ffmpeg to overwrite.
	CreateTemp(ctx context.Context, name, ext string) (path string, err error)

	// LoadTemp opens a temporary file for reading.
	// The caller is responsible for closing the returned ReadCloser.
	LoadTemp(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified temporary files. It attempts every path,
	// even when ctx is already done, and ignores files that no longer exist.
	CleanupTemp(ctx context.Context, paths []string) error

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
