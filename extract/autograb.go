package extract

import (
	"context"
	"log/slog"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/bloom"
)

// Grabber extracts a posting from a tab that shows url.
type Grabber interface {
	// Grab returns nil when there was nothing to extract.
	Grab(ctx context.Context, tabID, url string) *jobgrab.ExtractionResult
}

var (
	_ Grabber = (*AutoGrabber)(nil)
	_ Grabber = (*RuleGrabber)(nil)
)

// AutoGrabber runs the first matching stored site rule when a tab navigates.
// It is silent: no matching rule, a failed extraction or a repeat visit all
// return nil and only log at debug level.
type AutoGrabber struct {
	Rules        jobgrab.SiteRuleService
	Orchestrator *Orchestrator
	Options      Options

	// Seen skips URLs that were already grabbed successfully. Optional.
	Seen *bloom.Filter

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// NewAutoGrabber creates a new AutoGrabber.
func NewAutoGrabber(rules jobgrab.SiteRuleService, orchestrator *Orchestrator) *AutoGrabber {
	return &AutoGrabber{Rules: rules, Orchestrator: orchestrator}
}

// Grab implements Grabber.
func (a *AutoGrabber) Grab(ctx context.Context, tabID, url string) *jobgrab.ExtractionResult {
	log := a.logger().With("tab", tabID, "url", url)

	if a.Seen != nil && a.Seen.Test(url) {
		log.Debug("auto-grab skipped", "reason", "seen")
		return nil
	}

	active := true
	rules, err := a.Rules.FindSiteRules(ctx, jobgrab.SiteRuleFilter{Active: &active})
	if err != nil {
		log.Debug("auto-grab skipped", "reason", "rules", "error", err)
		return nil
	}
	match := jobgrab.FindMatchingRule(rules, url)
	if match == nil {
		log.Debug("auto-grab skipped", "reason", "no_match")
		return nil
	}

	res := a.Orchestrator.Extract(ctx, tabID, &match.Rule, a.Options)
	if !res.OK {
		log.Debug("auto-grab failed", "rule", match.ID, "error", res.Error)
		return nil
	}
	if a.Seen != nil {
		a.Seen.Add(url)
	}
	log.Debug("auto-grab", "rule", match.ID, "count", res.Count)
	return res
}

func (a *AutoGrabber) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// RuleGrabber applies one fixed rule to every page. Unlike AutoGrabber it
// returns failed results too.
type RuleGrabber struct {
	Orchestrator *Orchestrator
	Rule         any
	Options      Options
}

// Grab implements Grabber.
func (g *RuleGrabber) Grab(ctx context.Context, tabID, _ string) *jobgrab.ExtractionResult {
	return g.Orchestrator.Extract(ctx, tabID, g.Rule, g.Options)
}
