package goquery_test

import (
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinksWithConfigs(t *testing.T) {
	t.Parallel()

	t.Run("extracts links using provided selector configs", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div class="opening"><a href="/acme/jobs/1">Backend   Engineer</a></div>
<div class="opening"><a href="https://job-boards.example.io/acme/jobs/2">Frontend</a></div>
<section class="level-0"><a href="/acme/departments">Engineering</a></section>
</body>
</html>`

		configs := []goquery.SelectorConfig{
			{Selector: "div.opening a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
			{Selector: "section a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
		}

		links, err := goquery.ExtractLinksWithConfigs(html, "https://boards.example.com/acme", configs)

		require.NoError(t, err)
		require.Len(t, links, 3)

		assert.Equal(t, "https://boards.example.com/acme/jobs/1", links[0].URL)
		assert.Equal(t, "Backend Engineer", links[0].Text)
		assert.Equal(t, jobgrab.PriorityPosting, links[0].Priority)

		assert.Equal(t, "https://job-boards.example.io/acme/jobs/2", links[1].URL)

		assert.Equal(t, "https://boards.example.com/acme/departments", links[2].URL)
		assert.Equal(t, jobgrab.PriorityListing, links[2].Priority)
		assert.Equal(t, "listing", links[2].Source)
	})

	t.Run("deduplicates links keeping highest priority", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<ul class="list"><li><a href="/jobs/1">Listed</a></li></ul>
<div class="opening"><a href="/jobs/1#apply">Posting</a></div>
</body></html>`

		configs := []goquery.SelectorConfig{
			{Selector: ".list a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
			{Selector: ".opening a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		}

		links, err := goquery.ExtractLinksWithConfigs(html, "https://example.com/careers", configs)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/jobs/1", links[0].URL)
		assert.Equal(t, jobgrab.PriorityPosting, links[0].Priority)
		assert.Equal(t, "Posting", links[0].Text)
	})

	t.Run("skips non-HTTP and self-referential links", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="opening">
<a href="mailto:jobs@example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="#top">Top</a>
<a href="ftp://example.com/file">FTP</a>
<a href="/jobs/7">Seven</a>
</div></body></html>`

		configs := []goquery.SelectorConfig{{Selector: ".opening a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"}}

		links, err := goquery.ExtractLinksWithConfigs(html, "https://example.com/careers", configs)

		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://example.com/jobs/7", links[0].URL)
	})

	t.Run("returns error for invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ExtractLinksWithConfigs("<html></html>", "://bad", nil)

		require.Error(t, err)
		assert.Equal(t, jobgrab.EINVALID, jobgrab.ErrorCode(err))
	})
}

func TestExtractLinksWithConfigsAndFallback(t *testing.T) {
	t.Parallel()

	t.Run("adds same-host posting-like links at fallback priority", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/about">About</a>
<a href="/careers/backend-engineer">Backend</a>
<a href="https://other.example.org/jobs/1">Elsewhere</a>
<a href="/positions/42">Position</a>
</body></html>`

		links, err := goquery.ExtractLinksWithConfigsAndFallback(html, "https://example.com/", nil)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/careers/backend-engineer", links[0].URL)
		assert.Equal(t, jobgrab.PriorityFallback, links[0].Priority)
		assert.Equal(t, "fallback", links[0].Source)
		assert.Equal(t, "https://example.com/positions/42", links[1].URL)
	})
}

func TestBoardSelectors(t *testing.T) {
	t.Parallel()

	t.Run("lever selector finds posting titles", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div class="postings-group">
<div class="posting"><a class="posting-title" href="https://jobs.lever.co/acme/1"><h5>Go Engineer</h5></a>
<a class="posting-btn-submit" href="https://jobs.lever.co/acme/1/apply">Apply</a></div>
</div></body></html>`

		s := goquery.NewLeverSelector()
		links, err := s.ExtractLinks(html, "https://jobs.lever.co/acme")

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "lever", s.Name())
		assert.Equal(t, "https://jobs.lever.co/acme/1", links[0].URL)
		assert.Equal(t, jobgrab.PriorityPosting, links[0].Priority)
		assert.Equal(t, "https://jobs.lever.co/acme/1/apply", links[1].URL)
		assert.Equal(t, jobgrab.PriorityListing, links[1].Priority)
	})

	t.Run("generic selector uses job containers and fallback paths", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="job-list"><a href="/open/1">One</a></div>
<a href="/jobs/2">Two</a>
<a href="/team">Team</a>
</body></html>`

		s := goquery.NewGenericSelector()
		links, err := s.ExtractLinks(html, "https://example.com/")

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "https://example.com/open/1", links[0].URL)
		assert.Equal(t, jobgrab.PriorityListing, links[0].Priority)
		assert.Equal(t, "https://example.com/jobs/2", links[1].URL)
		assert.Equal(t, jobgrab.PriorityFallback, links[1].Priority)
	})
}
