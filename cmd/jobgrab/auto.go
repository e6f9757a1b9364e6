package main

import (
	"fmt"
	"path/filepath"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/extract"
	"github.com/AndreyKolygin/jobgrab/fs"
)

// Run executes the auto command.
func (c *AutoCmd) Run(deps *Dependencies) error {
	grabber := extract.NewAutoGrabber(deps.SiteRules, deps.Orchestrator)
	grabber.Options = extract.Options{Wait: c.Wait}
	grabber.Seen = deps.Seen
	grabber.Logger = deps.Logger

	batch := &extract.Batch{
		Tabs:        deps.Tabs,
		Grabber:     grabber,
		Limiter:     deps.Limiter,
		Concurrency: c.Concurrency,
	}

	var store *fs.ResultStore
	if c.Out != "" {
		out := filepath.Clean(c.Out)
		store = fs.NewResultStore(filepath.Dir(out), filepath.Base(out))
	}

	results, err := batch.Run(deps.Ctx, c.URLs, func(e extract.ProgressEvent) {
		switch e.Type {
		case extract.ProgressCompleted:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s\n", e.Completed, e.Total, e.URL)
		case extract.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "[%d/%d] %s: %s\n", e.Completed, e.Total, e.URL, jobgrab.ErrorMessage(e.Error))
		}
	})
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	var grabbed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(deps.Stdout, "fail  %s  %s\n", r.URL, jobgrab.ErrorMessage(r.Err))
			continue
		case r.Result == nil:
			fmt.Fprintf(deps.Stdout, "skip  %s\n", r.URL)
			continue
		}
		grabbed++
		fmt.Fprintf(deps.Stdout, "ok    %s  (%d matches)\n", r.URL, r.Result.Count)
		if store != nil {
			if err := store.Save(deps.Ctx, r.URL, r.Result); err != nil {
				_ = store.Abort()
				fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
				return err
			}
		}
	}

	if store != nil {
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
			return err
		}
	}
	if deps.Seen != nil {
		deps.logger().Debug("auto finished", "grabbed", grabbed, "total", len(results), "seen", deps.Seen.EstimatedCount())
	}
	fmt.Fprintf(deps.Stdout, "Grabbed %d of %d pages\n", grabbed, len(results))
	return nil
}
