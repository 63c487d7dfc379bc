package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bylawsiq/bylawsiq"
)

// maxFileBytes caps downloads at 200MB; municipal bylaws PDFs run to a few
// hundred pages at most.
const maxFileBytes = 200 << 20

// Ensure FileFetcher implements bylawsiq.FileFetcher.
var _ bylawsiq.FileFetcher = (*FileFetcher)(nil)

// FileFetcher downloads directly-linked documents. It presents the headers
// of an ordinary browser; bare Go-client requests get rejected by a fair
// share of municipal CDNs.
type FileFetcher struct {
	client     *http.Client
	userAgent  string
	retryDelay time.Duration
}

// FetcherOption configures a FileFetcher.
type FetcherOption func(*FileFetcher)

// WithFetcherUserAgent overrides the presented user agent.
func WithFetcherUserAgent(ua string) FetcherOption {
	return func(f *FileFetcher) {
		f.userAgent = ua
	}
}

// WithFetcherRetryDelay sets the pause before the single retry.
// Defaults to 1s.
func WithFetcherRetryDelay(d time.Duration) FetcherOption {
	return func(f *FileFetcher) {
		f.retryDelay = d
	}
}

// NewFileFetcher creates a FileFetcher with the given HTTP client.
// If client is nil, a client with a 60s timeout is used.
func NewFileFetcher(client *http.Client, opts ...FetcherOption) *FileFetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	f := &FileFetcher{
		client:     client,
		userAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchFile downloads the URL and returns the raw bytes and the response
// content type. Transient failures are retried once.
func (f *FileFetcher) FetchFile(ctx context.Context, url string) ([]byte, string, error) {
	data, mime, err := f.fetch(ctx, url)
	if err == nil || bylawsiq.ErrorCode(err) != bylawsiq.ETRANSIENT {
		return data, mime, err
	}

	select {
	case <-time.After(f.retryDelay):
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
	return f.fetch(ctx, url)
}

func (f *FileFetcher) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", bylawsiq.Errorf(bylawsiq.EINVALID, "creating request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,application/octet-stream,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		return nil, "", bylawsiq.Errorf(bylawsiq.ETRANSIENT, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", bylawsiq.Errorf(bylawsiq.ENOTFOUND, "HTTP 404 for %s", url)
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return nil, "", bylawsiq.Errorf(bylawsiq.EBLOCKED, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return nil, "", bylawsiq.Errorf(bylawsiq.ETRANSIENT, "HTTP %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileBytes))
	if err != nil {
		return nil, "", bylawsiq.Errorf(bylawsiq.ETRANSIENT, "reading %s: %v", url, err)
	}
	if len(data) == 0 {
		return nil, "", bylawsiq.Errorf(bylawsiq.ENODOWNLOAD, "empty response body for %s", url)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
