// Package slog provides logging decorators for bylawsiq services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/bylawsiq/bylawsiq"
)

// Ensure LoggingSitemapService implements bylawsiq.SitemapService.
var _ bylawsiq.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   bylawsiq.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next bylawsiq.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *bylawsiq.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap discovery",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// Ensure LoggingFileFetcher implements bylawsiq.FileFetcher.
var _ bylawsiq.FileFetcher = (*LoggingFileFetcher)(nil)

// LoggingFileFetcher wraps a FileFetcher with logging.
type LoggingFileFetcher struct {
	next   bylawsiq.FileFetcher
	logger *slog.Logger
}

// NewLoggingFileFetcher creates a new LoggingFileFetcher.
func NewLoggingFileFetcher(next bylawsiq.FileFetcher, logger *slog.Logger) *LoggingFileFetcher {
	return &LoggingFileFetcher{next: next, logger: logger}
}

// FetchFile delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFileFetcher) FetchFile(ctx context.Context, url string) (data []byte, mime string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("file download",
			"url", url,
			"bytes", len(data),
			"mime", mime,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchFile(ctx, url)
}

// Ensure LoggingAcquirer implements bylawsiq.PlatformAcquirer.
var _ bylawsiq.PlatformAcquirer = (*LoggingAcquirer)(nil)

// LoggingAcquirer wraps a PlatformAcquirer with logging.
type LoggingAcquirer struct {
	next   bylawsiq.PlatformAcquirer
	logger *slog.Logger
}

// NewLoggingAcquirer creates a new LoggingAcquirer.
func NewLoggingAcquirer(next bylawsiq.PlatformAcquirer, logger *slog.Logger) *LoggingAcquirer {
	return &LoggingAcquirer{next: next, logger: logger}
}

// Acquire delegates to the wrapped acquirer and logs the operation.
func (a *LoggingAcquirer) Acquire(ctx context.Context, candidate bylawsiq.Candidate, district string) (acq *bylawsiq.Acquisition, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", candidate.NormalizedURL,
			"district", district,
			"duration", time.Since(begin),
			"err", err,
		}
		if acq != nil {
			attrs = append(attrs, "bytes", len(acq.Data), "flagged", acq.Flagged)
		}
		a.logger.Info("platform acquisition", attrs...)
	}(time.Now())
	return a.next.Acquire(ctx, candidate, district)
}

// Ensure LoggingSessionFactory implements bylawsiq.SessionFactory.
var _ bylawsiq.SessionFactory = (*LoggingSessionFactory)(nil)

// LoggingSessionFactory wraps a SessionFactory so every session it creates
// logs its navigations.
type LoggingSessionFactory struct {
	next   bylawsiq.SessionFactory
	logger *slog.Logger
}

// NewLoggingSessionFactory creates a new LoggingSessionFactory.
func NewLoggingSessionFactory(next bylawsiq.SessionFactory, logger *slog.Logger) *LoggingSessionFactory {
	return &LoggingSessionFactory{next: next, logger: logger}
}

// NewSession creates a session whose navigations are logged.
func (f *LoggingSessionFactory) NewSession() (bylawsiq.Session, error) {
	session, err := f.next.NewSession()
	if err != nil {
		f.logger.Error("session creation failed", "err", err)
		return nil, err
	}
	return &loggingSession{next: session, logger: f.logger}, nil
}

type loggingSession struct {
	next   bylawsiq.Session
	logger *slog.Logger
}

func (s *loggingSession) Open(ctx context.Context, url string) (page bylawsiq.Page, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("page open",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Open(ctx, url)
}

func (s *loggingSession) Close() error {
	return s.next.Close()
}
