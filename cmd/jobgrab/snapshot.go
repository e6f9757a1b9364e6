package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/fs"
)

// Run executes the snapshot command.
func (c *SnapshotCmd) Run(deps *Dependencies) error {
	if c.List {
		names, err := deps.Snapshots.List()
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
			return err
		}
		for _, name := range names {
			fmt.Fprintln(deps.Stdout, name)
		}
		return nil
	}

	name := c.Name
	if name == "" {
		var err error
		if name, err = snapshotName(c.URL); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
			return err
		}
	}

	snaps, err := deps.Fetcher.FetchSnapshots(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}
	if err := deps.Snapshots.Save(deps.Ctx, name, snaps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", jobgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d frames to snapshot %s\n", len(snaps), name)
	return nil
}

// snapshotName derives a snapshot name from a page URL, e.g.
// jobs.example.com_careers_go-engineer.
func snapshotName(rawURL string) (string, error) {
	p, err := fs.URLToPath(rawURL)
	if err != nil {
		return "", err
	}
	p = strings.TrimSuffix(filepath.ToSlash(p), ".md")
	p = strings.TrimSuffix(p, "/index")
	return strings.ReplaceAll(p, "/", "_"), nil
}
