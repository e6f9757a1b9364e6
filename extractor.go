package jobgrab

import "time"

// Article holds the main content and metadata recovered from a page by a
// boilerplate-removing extractor.
type Article struct {
	Title       string
	Author      string
	Description string
	Published   time.Time
	Language    string
	Image       string
	SiteName    string

	// ContentHTML is the main content as clean HTML.
	ContentHTML string

	// Text is the main content as plain text.
	Text string
}

// ArticleExtractor extracts main content and metadata from HTML.
type ArticleExtractor interface {
	// ExtractArticle processes raw HTML; pageURL resolves relative links
	// and may be empty.
	ExtractArticle(html string, pageURL string) (*Article, error)
}
