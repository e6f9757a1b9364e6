package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AndreyKolygin/jobgrab"
)

// Run executes the links command.
func (c *LinksCmd) Run(deps *Dependencies) error {
	snaps, err := deps.Fetcher.FetchSnapshots(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	minPriority := jobgrab.PriorityPosting
	if c.All {
		minPriority = jobgrab.PriorityFallback
	}

	// Boards are often embedded in an iframe, so every frame is searched.
	seen := make(map[string]bool)
	var links []jobgrab.JobLink
	for _, snap := range snaps {
		selector := deps.Boards.GetForHTML(snap.HTML)
		found, err := selector.ExtractLinks(snap.HTML, snap.URL)
		if err != nil {
			deps.logger().Debug("extract links", "frame", snap.FrameID, "selector", selector.Name(), "error", err)
			continue
		}
		deps.logger().Debug("extract links", "frame", snap.FrameID, "selector", selector.Name(), "links", len(found))
		for _, l := range found {
			if l.Priority < minPriority || seen[l.URL] {
				continue
			}
			seen[l.URL] = true
			links = append(links, l)
		}
	}

	slices.SortStableFunc(links, func(a, b jobgrab.JobLink) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	if len(links) == 0 {
		fmt.Fprintln(deps.Stdout, "No job links found.")
		return nil
	}
	for _, l := range links {
		if l.Text != "" {
			fmt.Fprintf(deps.Stdout, "%s  %s\n", l.URL, l.Text)
			continue
		}
		fmt.Fprintln(deps.Stdout, l.URL)
	}
	return nil
}
