package main

import (
	"fmt"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/extract"
)

// Run executes the eval command.
func (c *EvalCmd) Run(deps *Dependencies) error {
	snaps, err := deps.Snapshots.Load(c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	var url string
	if len(snaps) > 0 {
		url = snaps[0].URL
	}

	// A snapshot does not change, so a single board probe is enough.
	raw, source, err := resolveRule(deps, c.RuleFlags, c.Name, url, 0, extract.MinPoll)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	deps.logger().Debug("rule", "source", source, "url", url)

	res := deps.Orchestrator.Extract(deps.Ctx, c.Name, raw, extract.Options{Wait: extract.MinWait, Poll: extract.MinPoll})
	return printResult(deps, res, c.OutputFlags)
}
