package mock

import (
	"context"

	"github.com/AndreyKolygin/jobgrab"
)

var _ jobgrab.SiteRuleService = (*SiteRuleService)(nil)

// SiteRuleService is a mock implementation of jobgrab.SiteRuleService.
type SiteRuleService struct {
	CreateSiteRuleFn   func(ctx context.Context, rule *jobgrab.SiteRule) error
	FindSiteRuleByIDFn func(ctx context.Context, id string) (*jobgrab.SiteRule, error)
	FindSiteRulesFn    func(ctx context.Context, filter jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error)
	UpdateSiteRuleFn   func(ctx context.Context, id string, upd jobgrab.SiteRuleUpdate) (*jobgrab.SiteRule, error)
	DeleteSiteRuleFn   func(ctx context.Context, id string) error
}

func (s *SiteRuleService) CreateSiteRule(ctx context.Context, rule *jobgrab.SiteRule) error {
	return s.CreateSiteRuleFn(ctx, rule)
}

func (s *SiteRuleService) FindSiteRuleByID(ctx context.Context, id string) (*jobgrab.SiteRule, error) {
	return s.FindSiteRuleByIDFn(ctx, id)
}

func (s *SiteRuleService) FindSiteRules(ctx context.Context, filter jobgrab.SiteRuleFilter) ([]*jobgrab.SiteRule, error) {
	return s.FindSiteRulesFn(ctx, filter)
}

func (s *SiteRuleService) UpdateSiteRule(ctx context.Context, id string, upd jobgrab.SiteRuleUpdate) (*jobgrab.SiteRule, error) {
	return s.UpdateSiteRuleFn(ctx, id, upd)
}

func (s *SiteRuleService) DeleteSiteRule(ctx context.Context, id string) error {
	return s.DeleteSiteRuleFn(ctx, id)
}
