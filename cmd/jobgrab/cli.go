package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/bloom"
	"github.com/AndreyKolygin/jobgrab/extract"
	"github.com/AndreyKolygin/jobgrab/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	SiteRules jobgrab.SiteRuleService
	Results   jobgrab.ResultService

	// Browser-backed services, wired only for commands that drive tabs.
	Tabs         jobgrab.TabService
	Frames       jobgrab.FrameCapturer
	Orchestrator *extract.Orchestrator
	Limiter      jobgrab.DomainLimiter
	Seen         *bloom.Filter

	Fetcher   jobgrab.SnapshotFetcher
	Snapshots *fs.SnapshotStore
	Boards    jobgrab.BoardRegistry
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool   `short:"v" help:"Log debug output to stderr"`
	Headful   bool   `help:"Show the browser window"`
	Extractor string `enum:"trafilatura,readability" default:"trafilatura" help:"Article extractor for the article template variables (${enum})"`
	Snapshots string `env:"JOBGRAB_SNAPSHOTS" help:"Snapshot directory (default ~/.jobgrab/snapshots)"`

	Extract  ExtractCmd  `cmd:"" help:"Extract a job posting from a page"`
	Auto     AutoCmd     `cmd:"" help:"Grab pages with the stored site rules"`
	Rules    RulesCmd    `cmd:"" help:"Manage site rules"`
	Snapshot SnapshotCmd `cmd:"" help:"Capture a page's frames to disk"`
	Eval     EvalCmd     `cmd:"" help:"Evaluate a rule against a stored snapshot"`
	Results  ResultsCmd  `cmd:"" help:"List stored extraction results"`
	Links    LinksCmd    `cmd:"" help:"List job posting links on a careers page"`
}

// RuleFlags selects a rule on the command line.
type RuleFlags struct {
	Selector string `short:"s" help:"CSS selector" xor:"rule"`
	Rule     string `short:"r" type:"existingfile" help:"Rule file (YAML or JSON)" xor:"rule"`
}

// OutputFlags controls how a result is printed.
type OutputFlags struct {
	Compose bool `help:"Append template entries aimed at the job text"`
	JSON    bool `help:"Print the full result as JSON"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"Page URL"`
	RuleFlags
	OutputFlags
	Wait time.Duration `default:"3s" help:"How long to keep probing"`
	Poll time.Duration `default:"160ms" help:"Delay between probes"`
}

// AutoCmd is the "auto" subcommand.
type AutoCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent tab limit"`
	RPS         float64       `name:"rps" default:"1" help:"Tab opens per second per domain (0 disables)"`
	Wait        time.Duration `default:"3s" help:"How long to keep probing each page"`
	Out         string        `short:"o" type:"path" help:"Write postings as markdown under this directory"`
}

// RulesCmd groups the site rule subcommands.
type RulesCmd struct {
	Add    RulesAddCmd    `cmd:"" help:"Add a site rule"`
	List   RulesListCmd   `cmd:"" help:"List site rules in matching order"`
	Delete RulesDeleteCmd `cmd:"" help:"Delete a site rule"`
	Enable RulesEnableCmd `cmd:"" help:"Enable or disable a site rule"`
	Import RulesImportCmd `cmd:"" help:"Import site rules from a YAML or JSON file"`
	Match  RulesMatchCmd  `cmd:"" help:"Show which site rule applies to a URL"`
}

// RulesAddCmd is the "rules add" subcommand.
type RulesAddCmd struct {
	Host string `arg:"" help:"Host pattern (example.com, *.lever.co, https://x.com/jobs/*, /regex/i)"`
	RuleFlags
	Inactive bool `help:"Store the rule disabled"`
	Position int  `help:"Matching position (default: last)"`
}

// RulesListCmd is the "rules list" subcommand.
type RulesListCmd struct {
	JSON bool `help:"Print rules as JSON"`
}

// RulesDeleteCmd is the "rules delete" subcommand.
type RulesDeleteCmd struct {
	ID string `arg:"" help:"Rule ID"`
}

// RulesEnableCmd is the "rules enable" subcommand.
type RulesEnableCmd struct {
	ID  string `arg:"" help:"Rule ID"`
	Off bool   `help:"Disable instead of enable"`
}

// RulesImportCmd is the "rules import" subcommand.
type RulesImportCmd struct {
	File    string `arg:"" type:"existingfile" help:"Rules file"`
	Replace bool   `help:"Replace rules whose ID already exists"`
}

// RulesMatchCmd is the "rules match" subcommand.
type RulesMatchCmd struct {
	URL string `arg:"" help:"Page URL"`
}

// SnapshotCmd is the "snapshot" subcommand.
type SnapshotCmd struct {
	URL  string `arg:"" help:"Page URL"`
	Name string `arg:"" optional:"" help:"Snapshot name (default derived from the URL)"`
	HTTP bool   `help:"Fetch over plain HTTP without running scripts"`
	List bool   `help:"List stored snapshots instead of capturing"`
}

// EvalCmd is the "eval" subcommand.
type EvalCmd struct {
	Name string `arg:"" help:"Snapshot name"`
	RuleFlags
	OutputFlags
}

// ResultsCmd is the "results" subcommand.
type ResultsCmd struct {
	Tab    string `help:"Only results for this tab"`
	Failed bool   `help:"Only failed results"`
	Limit  int    `short:"n" default:"20" help:"Maximum results to show"`
	JSON   bool   `help:"Print results as JSON"`
}

// LinksCmd is the "links" subcommand.
type LinksCmd struct {
	URL  string `arg:"" help:"Careers page URL"`
	HTTP bool   `help:"Fetch over plain HTTP without running scripts"`
	All  bool   `help:"Include listing and fallback links"`
}
