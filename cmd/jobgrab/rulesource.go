package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"gopkg.in/yaml.v3"
)

// Where a rule came from, for messages.
const (
	sourceFlag  = "flag"
	sourceSite  = "site rule"
	sourceBoard = "board"
)

// loadRuleFile reads a rule from a YAML or JSON file. The document may be a
// bare selector string or a mapping of rule fields.
func loadRuleFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "parse rule file %s: %v", path, err)
	}
	if r := jobgrab.NormalizeRule(raw); r == nil || r.IsEmpty() {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "rule file %s holds no usable rule", path)
	}
	return raw, nil
}

// flagRule returns the rule given on the command line, or nil.
func (f RuleFlags) flagRule() (any, error) {
	if f.Rule != "" {
		return loadRuleFile(f.Rule)
	}
	if strings.TrimSpace(f.Selector) != "" {
		return f.Selector, nil
	}
	return nil, nil
}

// siteRule returns the first active stored rule matching url, or nil.
func siteRule(ctx context.Context, rules jobgrab.SiteRuleService, url string) (*jobgrab.SiteRule, error) {
	active := true
	all, err := rules.FindSiteRules(ctx, jobgrab.SiteRuleFilter{Active: &active})
	if err != nil {
		return nil, err
	}
	return jobgrab.FindMatchingRule(all, url), nil
}

// boardRule captures the frames of tabID until one of them is recognized as
// a known job board, and returns that board's built-in rule. It gives up
// with ENOTFOUND once wait has passed.
func boardRule(ctx context.Context, frames jobgrab.FrameCapturer, boards jobgrab.BoardRegistry, tabID string, wait, poll time.Duration) (*jobgrab.Rule, jobgrab.Board, error) {
	deadline := time.Now().Add(wait)
	for {
		snaps, err := frames.CaptureFrames(ctx, tabID)
		if err != nil && jobgrab.ErrorCode(err) == jobgrab.ENOTFOUND {
			return nil, jobgrab.BoardUnknown, err
		}
		for _, snap := range snaps {
			if snap == nil {
				continue
			}
			if rule, board := boards.RuleForHTML(snap.HTML); rule != nil {
				return rule, board, nil
			}
		}
		if !time.Now().Before(deadline) {
			return nil, jobgrab.BoardUnknown, jobgrab.Errorf(jobgrab.ENOTFOUND, "no rule for this page; pass --selector or --rule, or add a site rule")
		}
		select {
		case <-ctx.Done():
			return nil, jobgrab.BoardUnknown, ctx.Err()
		case <-time.After(poll):
		}
	}
}

// resolveRule picks the rule for a page: command-line flags first, then the
// stored site rules, then the built-in rule of a recognized board.
func resolveRule(deps *Dependencies, flags RuleFlags, tabID, url string, wait, poll time.Duration) (any, string, error) {
	raw, err := flags.flagRule()
	if err != nil || raw != nil {
		return raw, sourceFlag, err
	}

	match, err := siteRule(deps.Ctx, deps.SiteRules, url)
	if err != nil {
		return nil, "", err
	}
	if match != nil {
		return &match.Rule, sourceSite + " " + match.ID, nil
	}

	rule, board, err := boardRule(deps.Ctx, deps.Frames, deps.Boards, tabID, wait, poll)
	if err != nil {
		return nil, "", err
	}
	return rule, sourceBoard + " " + string(board), nil
}
