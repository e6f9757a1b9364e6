package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Ensure LoggingInjector implements jobgrab.FrameInjector.
var _ jobgrab.FrameInjector = (*LoggingInjector)(nil)

// LoggingInjector wraps a FrameInjector with debug logging of every probe.
type LoggingInjector struct {
	next   jobgrab.FrameInjector
	logger *slog.Logger
}

// NewLoggingInjector creates a new LoggingInjector.
func NewLoggingInjector(next jobgrab.FrameInjector, logger *slog.Logger) *LoggingInjector {
	return &LoggingInjector{next: next, logger: logger}
}

// InjectAll logs the frame count and how many frames yielded text.
func (i *LoggingInjector) InjectAll(ctx context.Context, tabID string, plan jobgrab.Plan) (results []*jobgrab.ExtractionResult, err error) {
	defer func(begin time.Time) {
		var hits int
		for _, r := range results {
			if r != nil && r.OK {
				hits++
			}
		}
		i.logger.Debug("inject",
			"tab", tabID,
			"frames", len(results),
			"hits", hits,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.InjectAll(ctx, tabID, plan)
}
