package extract_test

import (
	"context"
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/extract"
	"github.com/AndreyKolygin/jobgrab/goquery"
	"github.com/AndreyKolygin/jobgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjector_InjectAll(t *testing.T) {
	t.Parallel()

	t.Run("evaluates every frame in capture order", func(t *testing.T) {
		t.Parallel()

		frames := &mock.FrameCapturer{
			CaptureFramesFn: func(_ context.Context, tabID string) ([]*jobgrab.Snapshot, error) {
				assert.Equal(t, "tab-1", tabID)
				return []*jobgrab.Snapshot{
					{FrameID: "top", URL: "https://example.com/", HTML: `<div class="posting">Top</div>`},
					{FrameID: "board", URL: "https://boards.example.com/", HTML: `<p>nothing</p>`},
					{FrameID: "embed", URL: "https://embed.example.com/", HTML: `<div class="posting">Embedded</div>`},
				}, nil
			},
		}
		injector := extract.NewInjector(frames, goquery.NewEvaluator(nil, nil))

		results, err := injector.InjectAll(context.Background(), "tab-1", jobgrab.CSSPlan{Selector: ".posting"})

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "Top", results[0].Text)
		assert.Equal(t, jobgrab.ReasonNotFound, results[1].Error)
		assert.Equal(t, "Embedded", results[2].Text)
	})

	t.Run("returns capture errors", func(t *testing.T) {
		t.Parallel()

		frames := &mock.FrameCapturer{
			CaptureFramesFn: func(context.Context, string) ([]*jobgrab.Snapshot, error) {
				return nil, jobgrab.Errorf(jobgrab.ENOTFOUND, "tab not found")
			},
		}
		injector := extract.NewInjector(frames, goquery.NewEvaluator(nil, nil))

		_, err := injector.InjectAll(context.Background(), "tab-1", jobgrab.CSSPlan{Selector: ".posting"})

		assert.Equal(t, jobgrab.ENOTFOUND, jobgrab.ErrorCode(err))
	})

	t.Run("feeds the orchestrator", func(t *testing.T) {
		t.Parallel()

		frames := &mock.FrameCapturer{
			CaptureFramesFn: func(context.Context, string) ([]*jobgrab.Snapshot, error) {
				return []*jobgrab.Snapshot{
					{URL: "https://example.com/", HTML: `<h1 class="title">Go Engineer</h1>`},
				}, nil
			},
		}
		o := extract.NewOrchestrator(extract.NewInjector(frames, goquery.NewEvaluator(nil, nil)), nil)

		got := o.Extract(context.Background(), "tab-1", "h1.title", fast)

		assert.True(t, got.OK)
		assert.Equal(t, "Go Engineer", got.Text)
		assert.Equal(t, 1, got.Count)
	})
}
