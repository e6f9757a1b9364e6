package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Ensure LoggingFetcher implements jobgrab.SnapshotFetcher.
var _ jobgrab.SnapshotFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a SnapshotFetcher with logging.
type LoggingFetcher struct {
	next   jobgrab.SnapshotFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next jobgrab.SnapshotFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// FetchSnapshots logs the URL, frame count and total HTML size, then
// delegates to the wrapped fetcher.
func (f *LoggingFetcher) FetchSnapshots(ctx context.Context, url string) (snaps []*jobgrab.Snapshot, err error) {
	defer func(begin time.Time) {
		var bytes int
		for _, s := range snaps {
			bytes += len(s.HTML)
		}
		f.logger.Info("fetch",
			"url", url,
			"frames", len(snaps),
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchSnapshots(ctx, url)
}
