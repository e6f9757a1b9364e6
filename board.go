package jobgrab

// Board identifies the hosted job board (applicant tracking system) that
// rendered a page.
type Board string

// Recognized job boards.
const (
	BoardUnknown         Board = ""
	BoardGreenhouse      Board = "greenhouse"
	BoardLever           Board = "lever"
	BoardAshby           Board = "ashby"
	BoardWorkable        Board = "workable"
	BoardSmartRecruiters Board = "smartrecruiters"

	// BoardSchema marks a page that is not on a known board but publishes a
	// schema.org JobPosting.
	BoardSchema Board = "schema"
)

// LinkPriority ranks discovered links (higher = more likely a posting).
type LinkPriority int

// Link priority levels.
const (
	PriorityIgnore   LinkPriority = 0
	PriorityFallback LinkPriority = 10
	PriorityListing  LinkPriority = 50
	PriorityPosting  LinkPriority = 100
)

// JobLink is a link to a job posting found on a listing page.
type JobLink struct {
	URL      string
	Priority LinkPriority
	Text     string
	Source   string // "posting", "listing", "fallback"
}

// LinkSelector finds job posting links on a listing page.
type LinkSelector interface {
	// ExtractLinks parses HTML and returns discovered links with priority.
	// The baseURL is used to resolve relative URLs.
	ExtractLinks(html string, baseURL string) ([]JobLink, error)

	// Name returns the selector's identifier (e.g., "lever", "generic").
	Name() string
}

// BoardDetector identifies job boards from HTML.
type BoardDetector interface {
	// Detect analyzes HTML and returns the identified board.
	// Returns BoardUnknown if the board cannot be determined.
	Detect(html string) Board
}

// BoardRegistry holds the link selector and built-in posting rule for each
// known board.
type BoardRegistry interface {
	// GetForHTML detects the board from HTML and returns its selector,
	// falling back to a generic selector when the board is unknown.
	GetForHTML(html string) LinkSelector

	// RuleForHTML detects the board from HTML and returns its built-in
	// posting rule, or nil when there is none.
	RuleForHTML(html string) (*Rule, Board)
}
