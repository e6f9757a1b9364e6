package jobgrab

import (
	"context"
	"strings"
	"time"
)

// SiteRule is a persisted rule applied automatically to pages whose URL
// matches Host.
type SiteRule struct {
	ID string `json:"id"`

	// Host is a pattern understood by SiteMatches.
	Host string `json:"host"`

	// Pattern is the legacy name of Host, consulted when Host is blank.
	Pattern string `json:"pattern,omitempty"`

	// Active is nil for records written before the flag existed; only an
	// explicit false disables the rule.
	Active *bool `json:"active,omitempty"`

	Rule Rule `json:"rule"`

	// Position orders rules; the first match wins.
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the rule takes part in matching.
func (r *SiteRule) IsActive() bool {
	return r.Active == nil || *r.Active
}

// Validate returns an error if the site rule contains invalid fields.
func (r *SiteRule) Validate() error {
	if strings.TrimSpace(r.Host) == "" && strings.TrimSpace(r.Pattern) == "" {
		return Errorf(EINVALID, "site rule host required")
	}
	if !r.Rule.Strategy.Valid() {
		return Errorf(EINVALID, "site rule strategy %q invalid", r.Rule.Strategy)
	}
	if r.Rule.IsEmpty() {
		return Errorf(EINVALID, "site rule has no selector, chain, template or script")
	}
	return nil
}

// SiteRuleFromMap builds a SiteRule from a raw record such as one decoded
// from a JSON or YAML rules file. Rule fields sit next to id/host/active at
// the top level; a bare "selector" string is enough. Returns nil when the
// record carries no usable rule.
func SiteRuleFromMap(m map[string]any) *SiteRule {
	rule := NormalizeRule(m)
	if rule == nil || rule.IsEmpty() {
		return nil
	}
	sr := &SiteRule{
		ID:      stringField(m, "id"),
		Host:    strings.TrimSpace(stringField(m, "host")),
		Pattern: strings.TrimSpace(stringField(m, "pattern")),
		Rule:    *rule,
	}
	if v, ok := m["active"].(bool); ok {
		sr.Active = &v
	}
	return sr
}

// SiteRuleService represents the settings store holding site rules.
type SiteRuleService interface {
	// CreateSiteRule normalizes and stores a new site rule.
	CreateSiteRule(ctx context.Context, rule *SiteRule) error

	// FindSiteRuleByID retrieves a site rule by ID.
	// Returns ENOTFOUND if the rule does not exist.
	FindSiteRuleByID(ctx context.Context, id string) (*SiteRule, error)

	// FindSiteRules retrieves site rules in matching order.
	FindSiteRules(ctx context.Context, filter SiteRuleFilter) ([]*SiteRule, error)

	// UpdateSiteRule updates an existing site rule.
	// Returns ENOTFOUND if the rule does not exist.
	UpdateSiteRule(ctx context.Context, id string, upd SiteRuleUpdate) (*SiteRule, error)

	// DeleteSiteRule permanently removes a site rule.
	// Returns ENOTFOUND if the rule does not exist.
	DeleteSiteRule(ctx context.Context, id string) error
}

// SiteRuleFilter represents a filter for FindSiteRules.
type SiteRuleFilter struct {
	ID     *string `json:"id"`
	Host   *string `json:"host"`
	Active *bool   `json:"active"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SiteRuleUpdate represents fields that can be updated on a site rule.
type SiteRuleUpdate struct {
	Host     *string `json:"host"`
	Active   *bool   `json:"active"`
	Rule     *Rule   `json:"rule"`
	Position *int    `json:"position"`
}
