package mock

import "github.com/AndreyKolygin/jobgrab"

var _ jobgrab.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of jobgrab.ArticleExtractor.
type ArticleExtractor struct {
	ExtractArticleFn func(html, pageURL string) (*jobgrab.Article, error)
}

func (e *ArticleExtractor) ExtractArticle(html, pageURL string) (*jobgrab.Article, error) {
	return e.ExtractArticleFn(html, pageURL)
}
