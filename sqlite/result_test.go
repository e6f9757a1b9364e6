package sqlite_test

import (
	"context"
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultService_SaveResult(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID, hash and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewResultService(setupTestDB(t))

		r := &jobgrab.StoredResult{
			TabID:            "7",
			URL:              "https://jobs.example.com/1",
			ExtractionResult: jobgrab.ExtractionResult{OK: true, Text: "Go Engineer", Count: 1},
		}
		require.NoError(t, svc.SaveResult(context.Background(), r))

		assert.NotEmpty(t, r.ID)
		assert.Len(t, r.ContentHash, 16)
		assert.False(t, r.CreatedAt.IsZero())
	})

	t.Run("requires a tab ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewResultService(setupTestDB(t))

		err := svc.SaveResult(context.Background(), &jobgrab.StoredResult{})
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
	})
}

func TestResultService_FindLatestResult(t *testing.T) {
	t.Parallel()

	t.Run("returns the newest result with its template payload", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewResultService(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, svc.SaveResult(ctx, &jobgrab.StoredResult{
			TabID:            "7",
			ExtractionResult: *jobgrab.Fail(jobgrab.ReasonNotFound),
		}))
		latest := &jobgrab.StoredResult{
			TabID: "7",
			URL:   "https://jobs.example.com/1",
			Rule:  &jobgrab.Rule{Strategy: jobgrab.StrategyTemplate, Chain: []jobgrab.ChainStep{}, Template: "{{title}}"},
			ExtractionResult: jobgrab.ExtractionResult{
				OK:              true,
				Text:            "Go Engineer",
				Count:           1,
				TemplateText:    "Go Engineer",
				TemplateEntries: []jobgrab.TemplateEntry{{Key: "title", Value: "Go Engineer"}},
				TemplateTargets: &jobgrab.TemplateTargets{ToJob: true},
			},
		}
		require.NoError(t, svc.SaveResult(ctx, latest))
		require.NoError(t, svc.SaveResult(ctx, &jobgrab.StoredResult{TabID: "8"}))

		found, err := svc.FindLatestResult(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, latest.ID, found.ID)
		assert.Equal(t, latest.URL, found.URL)
		assert.Equal(t, latest.Rule, found.Rule)
		assert.Equal(t, latest.ExtractionResult, found.ExtractionResult)
		assert.Equal(t, latest.ContentHash, found.ContentHash)
	})

	t.Run("returns ENOTFOUND for a tab without results", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewResultService(setupTestDB(t))

		_, err := svc.FindLatestResult(context.Background(), "7")
		assert.Equal(t, jobgrab.ENOTFOUND, jobgrab.ErrorCode(err))
	})
}

func TestResultService_FindResults(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewResultService(setupTestDB(t))
	ctx := context.Background()
	for _, r := range []*jobgrab.StoredResult{
		{TabID: "1", ExtractionResult: jobgrab.ExtractionResult{OK: true, Text: "a"}},
		{TabID: "1", ExtractionResult: *jobgrab.Fail(jobgrab.ReasonTimeout)},
		{TabID: "2", ExtractionResult: jobgrab.ExtractionResult{OK: true, Text: "b"}},
	} {
		require.NoError(t, svc.SaveResult(ctx, r))
	}

	t.Run("lists newest first", func(t *testing.T) {
		t.Parallel()

		results, err := svc.FindResults(ctx, jobgrab.ResultFilter{})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "b", results[0].Text)
		assert.Equal(t, "a", results[2].Text)
	})

	t.Run("filters by tab and outcome", func(t *testing.T) {
		t.Parallel()

		tab := "1"
		ok := true
		results, err := svc.FindResults(ctx, jobgrab.ResultFilter{TabID: &tab, OK: &ok})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "a", results[0].Text)
	})

	t.Run("limits", func(t *testing.T) {
		t.Parallel()

		results, err := svc.FindResults(ctx, jobgrab.ResultFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "b", results[0].Text)
	})
}

func TestContentHash(t *testing.T) {
	t.Parallel()

	t.Run("is empty without text", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, sqlite.ContentHash(jobgrab.Fail(jobgrab.ReasonNotFound)))
	})

	t.Run("ignores surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		a := sqlite.ContentHash(&jobgrab.ExtractionResult{Text: "Go Engineer"})
		b := sqlite.ContentHash(&jobgrab.ExtractionResult{Text: "  Go Engineer\n"})
		assert.Equal(t, a, b)
	})

	t.Run("covers template entries aimed at the job text", func(t *testing.T) {
		t.Parallel()

		plain := &jobgrab.ExtractionResult{Text: "Go Engineer"}
		withTemplate := &jobgrab.ExtractionResult{
			Text:            "Go Engineer",
			TemplateEntries: []jobgrab.TemplateEntry{{Key: "company", Value: "Acme"}},
			TemplateTargets: &jobgrab.TemplateTargets{ToJob: true},
		}
		assert.NotEqual(t, sqlite.ContentHash(plain), sqlite.ContentHash(withTemplate))
	})
}
