package goquery

import "github.com/AndreyKolygin/jobgrab"

var _ jobgrab.LinkSelector = (*BoardSelector)(nil)

// BoardSelector extracts posting links from a listing page using a fixed set
// of selector configs for one board.
type BoardSelector struct {
	name     string
	configs  []SelectorConfig
	fallback bool
}

// Name returns the selector's identifier.
func (s *BoardSelector) Name() string {
	return s.name
}

// ExtractLinks parses HTML and returns discovered links with priority.
func (s *BoardSelector) ExtractLinks(html string, baseURL string) ([]jobgrab.JobLink, error) {
	if s.fallback {
		return ExtractLinksWithConfigsAndFallback(html, baseURL, s.configs)
	}
	return ExtractLinksWithConfigs(html, baseURL, s.configs)
}

// NewGreenhouseSelector targets both the classic boards.greenhouse.io layout
// (div.opening) and the job-boards layout (tr.job-post).
func NewGreenhouseSelector() *BoardSelector {
	return &BoardSelector{name: string(jobgrab.BoardGreenhouse), configs: []SelectorConfig{
		{Selector: "div.opening a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		{Selector: "tr.job-post a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		{Selector: "section.level-0 a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
	}}
}

// NewLeverSelector targets jobs.lever.co listings.
func NewLeverSelector() *BoardSelector {
	return &BoardSelector{name: string(jobgrab.BoardLever), configs: []SelectorConfig{
		{Selector: ".posting a.posting-title[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		{Selector: ".postings-group a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
	}}
}

// NewAshbySelector targets jobs.ashbyhq.com listings.
func NewAshbySelector() *BoardSelector {
	return &BoardSelector{name: string(jobgrab.BoardAshby), configs: []SelectorConfig{
		{Selector: ".ashby-job-posting-brief-list a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
	}, fallback: true}
}

// NewWorkableSelector targets apply.workable.com listings.
func NewWorkableSelector() *BoardSelector {
	return &BoardSelector{name: string(jobgrab.BoardWorkable), configs: []SelectorConfig{
		{Selector: "li[data-ui='job'] a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		{Selector: "[data-ui='list'] a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
	}}
}

// NewSmartRecruitersSelector targets careers.smartrecruiters.com listings.
func NewSmartRecruitersSelector() *BoardSelector {
	return &BoardSelector{name: string(jobgrab.BoardSmartRecruiters), configs: []SelectorConfig{
		{Selector: "li.opening-job a[href]", Priority: jobgrab.PriorityPosting, Source: "posting"},
		{Selector: ".openings-list a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
	}}
}

// NewGenericSelector works on any careers page: anchors inside common job
// list containers, then any same-host link whose path looks like a posting.
func NewGenericSelector() *BoardSelector {
	return &BoardSelector{name: "generic", configs: []SelectorConfig{
		{Selector: "[class*='job'] a[href], [class*='position'] a[href], [class*='vacanc'] a[href]", Priority: jobgrab.PriorityListing, Source: "listing"},
	}, fallback: true}
}

// BuiltinRules holds the posting rule used for each known board when no
// stored site rule matches.
var BuiltinRules = map[jobgrab.Board]jobgrab.Rule{
	jobgrab.BoardGreenhouse: {
		Strategy: jobgrab.StrategyCSS,
		Selector: "#header .app-title, #header .company-name, #content, .job__title, .job__description",
		Chain:    []jobgrab.ChainStep{},
	},
	jobgrab.BoardLever: {
		Strategy: jobgrab.StrategyCSS,
		Selector: ".posting-headline, .posting-page .section.page-centered",
		Chain:    []jobgrab.ChainStep{},
	},
	jobgrab.BoardAshby: {
		Strategy: jobgrab.StrategyCSS,
		Selector: ".ashby-job-posting-heading, .ashby-job-posting-right-pane",
		Chain:    []jobgrab.ChainStep{},
	},
	jobgrab.BoardWorkable: {
		Strategy: jobgrab.StrategyCSS,
		Selector: "[data-ui='job-title'], [data-ui='job-description'], [data-ui='job-requirements'], [data-ui='job-benefits']",
		Chain:    []jobgrab.ChainStep{},
	},
	jobgrab.BoardSmartRecruiters: {
		Strategy: jobgrab.StrategyCSS,
		Selector: "h1.job-title, .job-sections",
		Chain:    []jobgrab.ChainStep{},
	},
	jobgrab.BoardSchema: {
		Strategy: jobgrab.StrategyTemplate,
		Chain:    []jobgrab.ChainStep{},
		Template: "{{schema:JobPosting.title}}\n{{schema:JobPosting.hiringOrganization.name}}\n" +
			"{{schema:JobPosting.jobLocation.address.addressLocality}}\n\n{{schema:JobPosting.description}}",
		TemplateToJob: true,
	},
}
