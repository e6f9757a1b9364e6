package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Ensure LoggingSiteRuleService implements jobgrab.SiteRuleService.
var _ jobgrab.SiteRuleService = (*LoggingSiteRuleService)(nil)

// LoggingSiteRuleService wraps a SiteRuleService, logging writes at info
// level and reads at debug level.
type LoggingSiteRuleService struct {
	next   jobgrab.SiteRuleService
	logger *slog.Logger
}

// NewLoggingSiteRuleService creates a new LoggingSiteRuleService.
func NewLoggingSiteRuleService(next jobgrab.SiteRuleService, logger *slog.Logger) *LoggingSiteRuleService {
	return &LoggingSiteRuleService{next: next, logger: logger}
}

// CreateSiteRule delegates to the wrapped service and logs the new rule.
func (s *LoggingSiteRuleService) CreateSiteRule(ctx context.Context, rule *jobgrab.SiteRule) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create site rule",
			"id", rule.ID,
			"host", rule.Host,
			"strategy", rule.Rule.Strategy,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSiteRule(ctx, rule)
}

// FindSiteRuleByID delegates to the wrapped service.
func (s *LoggingSiteRuleService) FindSiteRuleByID(ctx context.Context, id string) (*jobgrab.SiteRule, error) {
	return s.next.FindSiteRuleByID(ctx, id)
}

// FindSiteRules delegates to the wrapped service and logs the match count.
func (s *LoggingSiteRuleService) FindSiteRules(ctx context.Context, filter jobgrab.SiteRuleFilter) (rules []*jobgrab.SiteRule, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find site rules",
			"count", len(rules),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSiteRules(ctx, filter)
}

// UpdateSiteRule delegates to the wrapped service and logs the update.
func (s *LoggingSiteRuleService) UpdateSiteRule(ctx context.Context, id string, upd jobgrab.SiteRuleUpdate) (rule *jobgrab.SiteRule, err error) {
	defer func(begin time.Time) {
		s.logger.Info("update site rule",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateSiteRule(ctx, id, upd)
}

// DeleteSiteRule delegates to the wrapped service and logs the deletion.
func (s *LoggingSiteRuleService) DeleteSiteRule(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete site rule",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteSiteRule(ctx, id)
}
