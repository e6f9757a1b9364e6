package goquery

import "github.com/AndreyKolygin/jobgrab"

var _ jobgrab.BoardRegistry = (*Registry)(nil)

// Registry manages board-specific link selectors and posting rules and
// auto-detects boards from HTML content. Unknown boards fall back to the
// generic selector and have no built-in rule.
type Registry struct {
	detector  jobgrab.BoardDetector
	fallback  jobgrab.LinkSelector
	selectors map[jobgrab.Board]jobgrab.LinkSelector
	rules     map[jobgrab.Board]jobgrab.Rule
}

// NewRegistry creates a new Registry with the given detector and fallback selector.
func NewRegistry(detector jobgrab.BoardDetector, fallback jobgrab.LinkSelector) *Registry {
	return &Registry{
		detector:  detector,
		fallback:  fallback,
		selectors: make(map[jobgrab.Board]jobgrab.LinkSelector),
		rules:     make(map[jobgrab.Board]jobgrab.Rule),
	}
}

// NewDefaultRegistry returns a Registry with every known board registered
// and BuiltinRules loaded.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(NewDetector(), NewGenericSelector())
	r.Register(jobgrab.BoardGreenhouse, NewGreenhouseSelector())
	r.Register(jobgrab.BoardLever, NewLeverSelector())
	r.Register(jobgrab.BoardAshby, NewAshbySelector())
	r.Register(jobgrab.BoardWorkable, NewWorkableSelector())
	r.Register(jobgrab.BoardSmartRecruiters, NewSmartRecruitersSelector())
	for board, rule := range BuiltinRules {
		r.SetRule(board, rule)
	}
	return r
}

// Get returns the selector for a specific board.
// Returns nil if no selector is registered for the board.
func (r *Registry) Get(board jobgrab.Board) jobgrab.LinkSelector {
	return r.selectors[board]
}

// GetForHTML detects the board from HTML and returns the appropriate selector.
func (r *Registry) GetForHTML(html string) jobgrab.LinkSelector {
	board := r.detector.Detect(html)
	if selector, ok := r.selectors[board]; ok {
		return selector
	}
	return r.fallback
}

// RuleForHTML detects the board from HTML and returns a copy of its rule.
func (r *Registry) RuleForHTML(html string) (*jobgrab.Rule, jobgrab.Board) {
	board := r.detector.Detect(html)
	rule, ok := r.rules[board]
	if !ok {
		return nil, board
	}
	return jobgrab.NormalizeRule(rule), board
}

// Register adds a selector for a board, replacing any existing one.
func (r *Registry) Register(board jobgrab.Board, selector jobgrab.LinkSelector) {
	r.selectors[board] = selector
}

// SetRule sets the built-in posting rule for a board.
func (r *Registry) SetRule(board jobgrab.Board, rule jobgrab.Rule) {
	r.rules[board] = rule
}
