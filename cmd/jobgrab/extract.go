package main

import (
	"fmt"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/extract"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	tabID, err := deps.Tabs.OpenTab(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	defer func() { _ = deps.Tabs.CloseTab(tabID) }()

	opts := extract.Options{Wait: c.Wait, Poll: c.Poll}.Resolved()
	raw, source, err := resolveRule(deps, c.RuleFlags, tabID, c.URL, opts.Wait, opts.Poll)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	deps.logger().Debug("rule", "source", source)

	res := deps.Orchestrator.Extract(deps.Ctx, tabID, raw, opts)
	return printResult(deps, res, c.OutputFlags)
}
