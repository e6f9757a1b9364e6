package readability

import (
	"net/url"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements jobgrab.ArticleExtractor at compile time.
var _ jobgrab.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main content of a page.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractArticle processes raw HTML and returns the main content.
func (e *Extractor) ExtractArticle(rawHTML string, pageURL string) (*jobgrab.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, err
	}

	a := &jobgrab.Article{
		Title:       article.Title,
		Author:      article.Byline,
		Description: article.Excerpt,
		Language:    article.Language,
		Image:       article.Image,
		SiteName:    article.SiteName,
		ContentHTML: article.Content,
		Text:        article.TextContent,
	}
	if article.PublishedTime != nil {
		a.Published = *article.PublishedTime
	}
	return a, nil
}
