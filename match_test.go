package jobgrab_test

import (
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestWildcardToRegexp(t *testing.T) {
	t.Parallel()

	t.Run("expands star and question mark", func(t *testing.T) {
		t.Parallel()

		re, err := jobgrab.WildcardToRegexp("/jobs/*/view?", jobgrab.WildcardOptions{})
		require.NoError(t, err)

		assert.True(t, re.MatchString("/jobs/42/view1"))
		assert.True(t, re.MatchString("/JOBS/abc/def/VIEWx"))
		assert.False(t, re.MatchString("/jobs/42/view"))
		assert.False(t, re.MatchString("/x/jobs/42/view1"))
	})

	t.Run("escapes regex metacharacters", func(t *testing.T) {
		t.Parallel()

		re, err := jobgrab.WildcardToRegexp("a.b+(c)", jobgrab.WildcardOptions{})
		require.NoError(t, err)

		assert.True(t, re.MatchString("a.b+(c)"))
		assert.False(t, re.MatchString("axbb(c)"))
	})

	t.Run("unanchored matches substrings", func(t *testing.T) {
		t.Parallel()

		re, err := jobgrab.WildcardToRegexp("jobs", jobgrab.WildcardOptions{Unanchored: true})
		require.NoError(t, err)

		assert.True(t, re.MatchString("/careers/jobs/1"))
	})
}

func TestSiteMatches(t *testing.T) {
	t.Parallel()

	t.Run("subdomain wildcard with path", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://sub.example.com/jobs/42", "*.example.com/jobs/*"))
		assert.True(t, jobgrab.SiteMatches("https://example.com/jobs/42", "*.example.com/jobs/*"))
		assert.False(t, jobgrab.SiteMatches("https://sub.example.com/about", "*.example.com/jobs/*"))
	})

	t.Run("trailing slash after the host sets no path constraint", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://example.com/jobs/1", "example.com/"))
		assert.True(t, jobgrab.SiteMatches("https://example.com", "example.com/"))
		assert.False(t, jobgrab.SiteMatches("https://example.org/jobs/1", "example.com/"))
	})

	t.Run("different domain does not match", func(t *testing.T) {
		t.Parallel()

		assert.False(t, jobgrab.SiteMatches("https://example.org", "example.com"))
		assert.False(t, jobgrab.SiteMatches("https://notexample.com", "example.com"))
	})

	t.Run("host is compared case-insensitively with suffix matching", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://WWW.Example.COM/x", "example.com"))
		assert.True(t, jobgrab.SiteMatches("https://jobs.example.com:8443/x", "Example.com"))
	})

	t.Run("regex literal applies to the full URL", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://x.com/FOO42", `/foo\d+/i`))
		assert.False(t, jobgrab.SiteMatches("https://x.com/FOO42", `/foo\d+/`))
		assert.False(t, jobgrab.SiteMatches("https://x.com/foo", `/foo\d+/i`))
	})

	t.Run("full URL wildcard", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://boards.example.io/acme/jobs/1", "https://boards.example.io/*/jobs/*"))
		assert.False(t, jobgrab.SiteMatches("http://boards.example.io/acme/jobs/1", "https://boards.example.io/*"))
	})

	t.Run("malformed input fails closed", func(t *testing.T) {
		t.Parallel()

		assert.False(t, jobgrab.SiteMatches("::not a url", "example.com"))
		assert.False(t, jobgrab.SiteMatches("https://example.com", `/(unclosed/`))
		assert.False(t, jobgrab.SiteMatches("https://example.com", `/a/q`))
		assert.False(t, jobgrab.SiteMatches("https://example.com", ""))
		assert.False(t, jobgrab.SiteMatches("", "example.com"))
	})

	t.Run("host without path ignores the path", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jobgrab.SiteMatches("https://example.com/anything/here?q=1", "example.com"))
	})
}

func TestFindMatchingRule(t *testing.T) {
	t.Parallel()

	t.Run("first match wins regardless of specificity", func(t *testing.T) {
		t.Parallel()

		rules := []*jobgrab.SiteRule{
			{ID: "broad", Host: "*.example.com"},
			{ID: "specific", Host: "jobs.example.com/jobs/*"},
		}

		got := jobgrab.FindMatchingRule(rules, "https://jobs.example.com/jobs/1")

		require.NotNil(t, got)
		assert.Equal(t, "broad", got.ID)
	})

	t.Run("skips inactive rules", func(t *testing.T) {
		t.Parallel()

		rules := []*jobgrab.SiteRule{
			{ID: "off", Host: "example.com", Active: boolPtr(false)},
			{ID: "on", Host: "example.com", Active: boolPtr(true)},
		}

		got := jobgrab.FindMatchingRule(rules, "https://example.com/")

		require.NotNil(t, got)
		assert.Equal(t, "on", got.ID)
	})

	t.Run("missing active flag counts as active", func(t *testing.T) {
		t.Parallel()

		rules := []*jobgrab.SiteRule{{ID: "legacy", Host: "example.com"}}

		got := jobgrab.FindMatchingRule(rules, "https://example.com/")

		require.NotNil(t, got)
		assert.Equal(t, "legacy", got.ID)
	})

	t.Run("falls back to legacy pattern field", func(t *testing.T) {
		t.Parallel()

		rules := []*jobgrab.SiteRule{nil, {ID: "old", Pattern: "example.com/careers/*"}}

		got := jobgrab.FindMatchingRule(rules, "https://example.com/careers/9")

		require.NotNil(t, got)
		assert.Equal(t, "old", got.ID)
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		t.Parallel()

		rules := []*jobgrab.SiteRule{{ID: "a", Host: "example.com"}}

		assert.Nil(t, jobgrab.FindMatchingRule(rules, "https://other.net/"))
		assert.Nil(t, jobgrab.FindMatchingRule(nil, "https://other.net/"))
	})
}
