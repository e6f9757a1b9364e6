package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Ensure LoggingTabService implements jobgrab.TabService.
var _ jobgrab.TabService = (*LoggingTabService)(nil)

// LoggingTabService wraps a TabService with logging of tab lifecycle.
type LoggingTabService struct {
	next   jobgrab.TabService
	logger *slog.Logger
}

// NewLoggingTabService creates a new LoggingTabService.
func NewLoggingTabService(next jobgrab.TabService, logger *slog.Logger) *LoggingTabService {
	return &LoggingTabService{next: next, logger: logger}
}

// OpenTab logs the URL and the assigned tab.
func (s *LoggingTabService) OpenTab(ctx context.Context, url string) (tabID string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("open tab",
			"url", url,
			"tab", tabID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.OpenTab(ctx, url)
}

// TabURL delegates to the wrapped service.
func (s *LoggingTabService) TabURL(ctx context.Context, tabID string) (string, error) {
	return s.next.TabURL(ctx, tabID)
}

// CloseTab logs failures only.
func (s *LoggingTabService) CloseTab(tabID string) error {
	err := s.next.CloseTab(tabID)
	if err != nil {
		s.logger.Warn("close tab", "tab", tabID, "err", err)
	}
	return err
}
