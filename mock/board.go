package mock

import "github.com/AndreyKolygin/jobgrab"

var _ jobgrab.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of jobgrab.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]jobgrab.JobLink, error)
	NameFn         func() string
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]jobgrab.JobLink, error) {
	return s.ExtractLinksFn(html, baseURL)
}

func (s *LinkSelector) Name() string {
	return s.NameFn()
}

var _ jobgrab.BoardDetector = (*BoardDetector)(nil)

// BoardDetector is a mock implementation of jobgrab.BoardDetector.
type BoardDetector struct {
	DetectFn func(html string) jobgrab.Board
}

func (d *BoardDetector) Detect(html string) jobgrab.Board {
	return d.DetectFn(html)
}

var _ jobgrab.BoardRegistry = (*BoardRegistry)(nil)

// BoardRegistry is a mock implementation of jobgrab.BoardRegistry.
type BoardRegistry struct {
	GetForHTMLFn  func(html string) jobgrab.LinkSelector
	RuleForHTMLFn func(html string) (*jobgrab.Rule, jobgrab.Board)
}

func (r *BoardRegistry) GetForHTML(html string) jobgrab.LinkSelector {
	return r.GetForHTMLFn(html)
}

func (r *BoardRegistry) RuleForHTML(html string) (*jobgrab.Rule, jobgrab.Board) {
	return r.RuleForHTMLFn(html)
}
