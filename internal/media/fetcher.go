package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/maauso/mocky-effects/internal/effect"
	"github.com/maauso/mocky-effects/internal/metrics"
	"github.com/maauso/mocky-effects/internal/storage"
)

const (
	// DefaultFetchTimeout bounds a single remote download.
	DefaultFetchTimeout = 60 * time.Second
	// DefaultExtension is used when none can be inferred from the reference.
	DefaultExtension = ".mp4"
)

var extPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,5}$`)

// Compile-time check that HTTPFetcher implements Fetcher.
var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher implements Fetcher for inline base64 payloads and http(s) URLs.
type HTTPFetcher struct {
	store  storage.Storage
	client *http.Client
	logger *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client for remote downloads.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// WithTimeout sets the download budget for remote references.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// NewFetcher creates an HTTPFetcher that writes into store.
func NewFetcher(store storage.Storage, logger *slog.Logger, opts ...FetcherOption) *HTTPFetcher {
	if logger == nil {
		logger = slog.Default()
	}

	f := &HTTPFetcher{
		store:  store,
		client: &http.Client{Timeout: DefaultFetchTimeout},
		logger: logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads or decodes ref into a temporary file.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", fmt.Errorf("%w: media reference is empty", effect.ErrFetch)
	}

	if IsURL(trimmed) {
		return f.download(ctx, trimmed)
	}
	// Inline payloads keep their spaces: a leading or trailing space is a damaged '+'.
	return f.decode(ctx, ref)
}

// download performs a single GET and streams the body to a temp file.
func (f *HTTPFetcher) download(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: parse url: %w", effect.ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", effect.ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %w", effect.ErrFetch, u.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: download %s: unexpected status %d", effect.ErrFetch, u.Redacted(), resp.StatusCode)
	}

	p, size, err := f.store.SaveTemp(ctx, "input", extensionFromURL(u), resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: save download: %w", effect.ErrFetch, err)
	}

	f.logSaved(p, size, "url")
	return p, nil
}

// decode repairs and decodes an inline base64 payload.
func (f *HTTPFetcher) decode(ctx context.Context, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(NormalizeBase64(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", effect.ErrFetch, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: decoded payload is empty", effect.ErrFetch)
	}

	p, size, err := f.store.SaveTemp(ctx, "input", sniffExtension(data), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: save payload: %w", effect.ErrFetch, err)
	}

	f.logSaved(p, size, "base64")
	return p, nil
}

func (f *HTTPFetcher) logSaved(p string, size int64, source string) {
	metrics.FetchedBytesTotal.Add(float64(size))
	f.logger.Debug("media fetched",
		slog.String("source", source),
		slog.String("path", p),
		slog.String("size", humanize.Bytes(uint64(size))), // #nosec G115 - size comes from io.Copy, never negative
	)
}

// IsURL reports whether ref is an http(s) locator rather than inline data.
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// NormalizeBase64 repairs common transport damage to a base64 payload: an optional
// data URI prefix, embedded line breaks, '+' turned into spaces, URL-safe
// characters, and missing or mangled '=' padding.
func NormalizeBase64(s string) string {
	s = strings.Trim(s, "\r\n\t")
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ";base64,"); i >= 0 {
			s = s[i+len(";base64,"):]
		}
	}

	s = strings.NewReplacer(
		"\r", "",
		"\n", "",
		"\t", "",
		" ", "+",
		"-", "+",
		"_", "/",
	).Replace(s)

	s = strings.TrimRight(s, "=")
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return s
}

func extensionFromURL(u *url.URL) string {
	ext := strings.ToLower(path.Ext(u.Path))
	if !extPattern.MatchString(ext) {
		return DefaultExtension
	}
	return ext
}

func sniffExtension(data []byte) string {
	ext := mimetype.Detect(data).Extension()
	if !extPattern.MatchString(ext) {
		return DefaultExtension
	}
	return ext
}
