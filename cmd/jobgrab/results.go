package main

import (
	"fmt"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Run executes the results command.
func (c *ResultsCmd) Run(deps *Dependencies) error {
	filter := jobgrab.ResultFilter{Limit: c.Limit}
	if c.Tab != "" {
		filter.TabID = &c.Tab
	}
	if c.Failed {
		ok := false
		filter.OK = &ok
	}

	results, err := deps.Results.FindResults(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []*jobgrab.StoredResult{}
		}
		return writeJSON(deps.Stdout, results)
	}
	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}

	for _, r := range results {
		status := fmt.Sprintf("ok(%d)", r.Count)
		if !r.OK {
			status = "fail(" + r.Error + ")"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", r.CreatedAt.Local().Format(time.DateTime), r.TabID, status, r.URL)
	}
	return nil
}
