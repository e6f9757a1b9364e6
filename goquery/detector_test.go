package goquery_test

import (
	"testing"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want jobgrab.Board
	}{
		{
			name: "detects classic Greenhouse boards",
			html: `<html><body><div id="app_body"><section class="level-0">
<div class="opening"><a href="/acme/jobs/123">Backend Engineer</a></div>
</section></div></body></html>`,
			want: jobgrab.BoardGreenhouse,
		},
		{
			name: "detects the Greenhouse job-boards layout",
			html: `<html><body><table><tr class="job-post"><td><a href="/acme/jobs/1">Go</a></td></tr></table></body></html>`,
			want: jobgrab.BoardGreenhouse,
		},
		{
			name: "detects Greenhouse embeds",
			html: `<html><body><div id="grnhse_app"></div></body></html>`,
			want: jobgrab.BoardGreenhouse,
		},
		{
			name: "detects Lever listings",
			html: `<html><body><div class="postings-group"><div class="posting">
<a class="posting-title" href="https://jobs.lever.co/acme/abc">Go Engineer</a></div></div></body></html>`,
			want: jobgrab.BoardLever,
		},
		{
			name: "detects Lever postings",
			html: `<html><body><div class="posting-headline"><h2>Go Engineer</h2></div></body></html>`,
			want: jobgrab.BoardLever,
		},
		{
			name: "detects Ashby",
			html: `<html><body><div class="ashby-job-posting-brief-list"><a href="/acme/1">Role</a></div></body></html>`,
			want: jobgrab.BoardAshby,
		},
		{
			name: "detects Workable",
			html: `<html><body><h1 data-ui="job-title">Go Engineer</h1></body></html>`,
			want: jobgrab.BoardWorkable,
		},
		{
			name: "detects SmartRecruiters",
			html: `<html><body><ul><li class="opening-job"><a href="/acme/1">Role</a></li></ul></body></html>`,
			want: jobgrab.BoardSmartRecruiters,
		},
		{
			name: "falls back to schema.org JobPosting markup",
			html: `<html><head><script type="application/ld+json">{"@type": "JobPosting", "title": "Go"}</script></head><body></body></html>`,
			want: jobgrab.BoardSchema,
		},
		{
			name: "returns unknown for plain pages",
			html: `<html><body><p>About us</p></body></html>`,
			want: jobgrab.BoardUnknown,
		},
		{
			name: "returns unknown for empty input",
			html: ``,
			want: jobgrab.BoardUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := goquery.NewDetector()

			assert.Equal(t, tt.want, d.Detect(tt.html))
		})
	}
}
