package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	main "github.com/AndreyKolygin/jobgrab/cmd/jobgrab"
	"github.com/AndreyKolygin/jobgrab/extract"
	"github.com/AndreyKolygin/jobgrab/fs"
	"github.com/AndreyKolygin/jobgrab/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayDeps(t *testing.T, snaps []*jobgrab.Snapshot) *main.Dependencies {
	t.Helper()

	store := fs.NewSnapshotStore(t.TempDir())
	if snaps != nil {
		require.NoError(t, store.Save(context.Background(), "page", snaps))
	}

	deps, _, _ := newDeps()
	deps.Snapshots = store
	deps.Frames = store
	deps.Boards = goquery.NewDefaultRegistry()
	deps.SiteRules = noSiteRules()
	deps.Orchestrator = extract.NewOrchestrator(extract.NewInjector(store, goquery.NewEvaluator(nil, nil)), nil)
	return deps
}

func TestEvalCmd_Run(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	leverPage := []*jobgrab.Snapshot{
		{
			FrameID:    "top",
			URL:        "https://jobs.lever.co/acme/42",
			CapturedAt: at,
			HTML: `<html><body>
<div class="posting-headline"><h2>Go Engineer</h2></div>
<div class="posting-page"><div class="section page-centered">Build ingestion services.</div></div>
</body></html>`,
		},
	}

	t.Run("evaluates the selector against every stored frame", func(t *testing.T) {
		t.Parallel()

		deps := replayDeps(t, leverPage)
		stdout := deps.Stdout.(*bytes.Buffer)

		cmd := &main.EvalCmd{Name: "page"}
		cmd.Selector = "h2"
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "Go Engineer\n", stdout.String())
	})

	t.Run("uses the built-in rule of a recognized board", func(t *testing.T) {
		t.Parallel()

		deps := replayDeps(t, leverPage)
		stdout := deps.Stdout.(*bytes.Buffer)

		require.NoError(t, (&main.EvalCmd{Name: "page"}).Run(deps))

		assert.Contains(t, stdout.String(), "Go Engineer")
		assert.Contains(t, stdout.String(), "Build ingestion services.")
	})

	t.Run("reports an unknown snapshot", func(t *testing.T) {
		t.Parallel()

		deps := replayDeps(t, nil)
		stderr := deps.Stderr.(*bytes.Buffer)

		err := (&main.EvalCmd{Name: "missing"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, jobgrab.ENOTFOUND, jobgrab.ErrorCode(err))
		assert.Contains(t, stderr.String(), `snapshot "missing" not found`)
	})

	t.Run("reports a selector that matches nothing", func(t *testing.T) {
		t.Parallel()

		deps := replayDeps(t, leverPage)

		cmd := &main.EvalCmd{Name: "page"}
		cmd.Selector = ".missing"
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, jobgrab.ErrorMessage(err), jobgrab.ReasonNotFound)
	})
}
