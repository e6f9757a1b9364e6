package goquery

import (
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/PuerkitoBio/goquery"
)

var _ jobgrab.BoardDetector = (*Detector)(nil)

// Detector identifies hosted job boards from HTML content.
// It checks for board-specific classes, data attributes and embed scripts.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified board.
// Returns BoardUnknown if the board cannot be determined.
func (d *Detector) Detect(html string) jobgrab.Board {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return jobgrab.BoardUnknown
	}

	// Greenhouse: classic boards use #app_body and div.opening, the newer
	// job-boards layout uses tr.job-post and .job__title; embeds load
	// grnhse_app.
	if d.hasSelector(doc, "#app_body") ||
		d.hasSelector(doc, "#grnhse_app") ||
		d.hasSelector(doc, "div.opening a[href]") ||
		d.hasSelector(doc, "tr.job-post") ||
		d.hasSelector(doc, ".job__title") ||
		d.hasSelector(doc, "script[src*='greenhouse.io']") {
		return jobgrab.BoardGreenhouse
	}

	if d.hasSelector(doc, ".postings-group") ||
		d.hasSelector(doc, ".posting-headline") ||
		d.hasSelector(doc, "a[href*='lever.co']") && d.hasSelector(doc, ".posting") {
		return jobgrab.BoardLever
	}

	if d.hasSelector(doc, ".ashby-job-posting-brief-list") ||
		d.hasSelector(doc, ".ashby-job-posting-heading") ||
		d.hasSelector(doc, "script[src*='ashbyhq.com']") {
		return jobgrab.BoardAshby
	}

	if d.hasSelector(doc, "[data-ui='job-title']") ||
		d.hasSelector(doc, "li[data-ui='job']") ||
		d.hasSelector(doc, "script[src*='workable.com']") {
		return jobgrab.BoardWorkable
	}

	if d.hasSelector(doc, "li.opening-job") ||
		d.hasSelector(doc, ".job-sections") ||
		d.hasSelector(doc, "script[src*='smartrecruiters.com']") {
		return jobgrab.BoardSmartRecruiters
	}

	if d.hasJobPosting(doc) {
		return jobgrab.BoardSchema
	}

	return jobgrab.BoardUnknown
}

// hasSelector checks if the document contains at least one element matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasJobPosting reports whether any JSON-LD block declares a JobPosting.
func (d *Detector) hasJobPosting(doc *goquery.Document) bool {
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.Contains(s.Text(), `"JobPosting"`)
		return !found
	})
	return found
}
