package jobgrab_test

import (
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/stretchr/testify/assert"
)

func TestComposeJobText(t *testing.T) {
	t.Parallel()

	t.Run("returns text when template does not target the job", func(t *testing.T) {
		t.Parallel()

		r := &jobgrab.ExtractionResult{
			OK:              true,
			Text:            "Description",
			TemplateText:    "Acme",
			TemplateEntries: []jobgrab.TemplateEntry{{Key: "company", Value: "Acme"}},
			TemplateTargets: &jobgrab.TemplateTargets{ToResult: true},
		}

		assert.Equal(t, "Description", jobgrab.ComposeJobText(r))
	})

	t.Run("appends entries as key value lines", func(t *testing.T) {
		t.Parallel()

		r := &jobgrab.ExtractionResult{
			OK:   true,
			Text: " Description \n",
			TemplateEntries: []jobgrab.TemplateEntry{
				{Key: "title", Value: "Engineer"},
				{Key: "company", Value: "Acme"},
			},
			TemplateTargets: &jobgrab.TemplateTargets{ToJob: true},
		}

		assert.Equal(t, "Description\n\ntitle: Engineer\ncompany: Acme", jobgrab.ComposeJobText(r))
	})

	t.Run("falls back to template text without entries", func(t *testing.T) {
		t.Parallel()

		r := &jobgrab.ExtractionResult{
			Text:            "",
			TemplateText:    "Rendered",
			TemplateTargets: &jobgrab.TemplateTargets{ToJob: true},
		}

		assert.Equal(t, "Rendered", jobgrab.ComposeJobText(r))
	})

	t.Run("does not repeat template strategy output", func(t *testing.T) {
		t.Parallel()

		r := &jobgrab.ExtractionResult{
			OK:              true,
			Text:            "Engineer at Acme",
			TemplateText:    "Engineer at Acme",
			TemplateEntries: []jobgrab.TemplateEntry{{Key: "title", Value: "Engineer"}},
			TemplateTargets: &jobgrab.TemplateTargets{ToJob: true},
		}

		assert.Equal(t, "Engineer at Acme", jobgrab.ComposeJobText(r))
	})

	t.Run("nil result is empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, jobgrab.ComposeJobText(nil))
	})
}

func TestExtractionResult_HasTemplate(t *testing.T) {
	t.Parallel()

	assert.False(t, (&jobgrab.ExtractionResult{}).HasTemplate())
	assert.True(t, (&jobgrab.ExtractionResult{TemplateText: "x"}).HasTemplate())
	assert.True(t, (&jobgrab.ExtractionResult{TemplateEntries: []jobgrab.TemplateEntry{{Key: "k", Value: "v"}}}).HasTemplate())
}

func TestFail(t *testing.T) {
	t.Parallel()

	r := jobgrab.Fail(jobgrab.ReasonTimeout)

	assert.False(t, r.OK)
	assert.Equal(t, "timeout", r.Error)
}
