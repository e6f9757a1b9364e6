package jobgrab_test

import (
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/stretchr/testify/assert"
)

func TestApplyTemplate(t *testing.T) {
	t.Parallel()

	t.Run("missing keys resolve to empty and are left out of entries", func(t *testing.T) {
		t.Parallel()

		out := jobgrab.ApplyTemplate("{{title}} — {{missing}}", map[string]string{"title": "X"})

		assert.Equal(t, "X —", out.Text)
		assert.Equal(t, []jobgrab.TemplateEntry{{Key: "title", Value: "X"}}, out.Entries)
		assert.Equal(t, []string{"title", "missing"}, out.Keys)
	})

	t.Run("records distinct keys in first-use order", func(t *testing.T) {
		t.Parallel()

		vars := map[string]string{"a": "1", "b": "2"}
		out := jobgrab.ApplyTemplate("{{b}} {{a}} {{ b }} {{a}}", vars)

		assert.Equal(t, "2 1 2 1", out.Text)
		assert.Equal(t, []string{"b", "a"}, out.Keys)
		assert.Equal(t, []jobgrab.TemplateEntry{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}, out.Entries)
	})

	t.Run("supports namespaced keys", func(t *testing.T) {
		t.Parallel()

		vars := map[string]string{
			"meta:name:description":   "Great job",
			"schema:JobPosting.title": "Engineer",
		}
		out := jobgrab.ApplyTemplate("{{schema:JobPosting.title}}\n{{meta:name:description}}", vars)

		assert.Equal(t, "Engineer\nGreat job", out.Text)
		assert.Len(t, out.Entries, 2)
	})

	t.Run("normalizes whitespace in output", func(t *testing.T) {
		t.Parallel()

		out := jobgrab.ApplyTemplate("  {{a}} end  \n\n\n\n{{b}}  ", map[string]string{"a": "start", "b": "tail"})

		assert.Equal(t, "start end\n\ntail", out.Text)
	})

	t.Run("text without placeholders is passed through", func(t *testing.T) {
		t.Parallel()

		out := jobgrab.ApplyTemplate("plain", nil)

		assert.Equal(t, "plain", out.Text)
		assert.Empty(t, out.Keys)
		assert.Empty(t, out.Entries)
	})
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b", jobgrab.NormalizeText("a b"))
	assert.Equal(t, "a\n\nb", jobgrab.NormalizeText("a   \n\n\n\n\nb"))
	assert.Equal(t, "a\nb", jobgrab.NormalizeText("\r\n a\r\nb \n"))
	assert.Empty(t, jobgrab.NormalizeText(" \n\t "))
}
