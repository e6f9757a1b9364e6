package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements jobgrab.ArticleExtractor at compile time.
var _ jobgrab.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main content and metadata
// of a posting page.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	return &jobgrab.Article{
		Title:       meta.Title,
		Author:      meta.Author,
		Description: meta.Description,
		Published:   meta.Date,
		Language:    meta.Language,
		Image:       meta.Image,
		SiteName:    meta.Sitename,
		ContentHTML: contentHTML,
		Text:        result.ContentText,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
