package jobgrab

import (
	"context"
	"strings"
	"time"
)

// Failure reasons carried in ExtractionResult.Error.
const (
	ReasonInvalidRule     = "invalid_rule"
	ReasonNoSelector      = "no_selector"
	ReasonEmptyChain      = "empty_chain"
	ReasonEmptyTemplate   = "empty_template"
	ReasonUnknownStrategy = "unknown_strategy"
	ReasonNotFound        = "notfound"
	ReasonTimeout         = "timeout"
)

// TemplateEntry is one resolved template variable.
type TemplateEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TemplateTargets says where rendered template output should be appended.
type TemplateTargets struct {
	ToJob    bool `json:"toJob"`
	ToResult bool `json:"toResult"`
}

// ExtractionResult is produced once per frame by an Evaluator and reduced
// across frames by the orchestrator. Failures are reported through OK and
// Error, never as Go errors.
type ExtractionResult struct {
	OK              bool             `json:"ok"`
	Text            string           `json:"text"`
	Count           int              `json:"count"`
	Error           string           `json:"error,omitempty"`
	TemplateText    string           `json:"templateText,omitempty"`
	TemplateEntries []TemplateEntry  `json:"templateEntries,omitempty"`
	TemplateTargets *TemplateTargets `json:"templateTargets,omitempty"`
}

// Fail returns a failed result carrying reason.
func Fail(reason string) *ExtractionResult {
	return &ExtractionResult{Error: reason}
}

// HasTemplate reports whether the result carries rendered template output.
func (r *ExtractionResult) HasTemplate() bool {
	return r.TemplateText != "" || len(r.TemplateEntries) > 0
}

// ComposeJobText combines selector-derived text with the rendered template
// entries ("key: value" per line) when the template targets the job text.
// Parts are separated by a blank line and the result is trimmed.
func ComposeJobText(r *ExtractionResult) string {
	if r == nil {
		return ""
	}
	text := strings.TrimSpace(r.Text)
	if r.TemplateTargets == nil || !r.TemplateTargets.ToJob {
		return text
	}
	// Template-strategy results already carry the rendered template as text.
	if text != "" && text == strings.TrimSpace(r.TemplateText) {
		return text
	}

	var tmpl string
	if len(r.TemplateEntries) > 0 {
		lines := make([]string, 0, len(r.TemplateEntries))
		for _, e := range r.TemplateEntries {
			lines = append(lines, e.Key+": "+e.Value)
		}
		tmpl = strings.Join(lines, "\n")
	} else {
		tmpl = strings.TrimSpace(r.TemplateText)
	}

	if tmpl == "" {
		return text
	}
	if text == "" {
		return tmpl
	}
	return strings.TrimSpace(text + "\n\n" + tmpl)
}

// StoredResult is a persisted final extraction result.
type StoredResult struct {
	ID          string    `json:"id"`
	TabID       string    `json:"tabId"`
	URL         string    `json:"url"`
	Rule        *Rule     `json:"rule"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`

	ExtractionResult
}

// ResultService persists final extraction results for callers to read.
type ResultService interface {
	// SaveResult stores a result, assigning ID, hash and timestamp.
	SaveResult(ctx context.Context, result *StoredResult) error

	// FindLatestResult returns the most recent result for a tab.
	// Returns ENOTFOUND if the tab has no stored result.
	FindLatestResult(ctx context.Context, tabID string) (*StoredResult, error)

	// FindResults retrieves results, newest first.
	FindResults(ctx context.Context, filter ResultFilter) ([]*StoredResult, error)
}

// ResultFilter represents a filter for FindResults.
type ResultFilter struct {
	TabID *string `json:"tabId"`
	OK    *bool   `json:"ok"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
