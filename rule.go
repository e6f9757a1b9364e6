package jobgrab

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Strategy identifies how a rule extracts text from a page.
type Strategy string

// Supported strategies. StrategyScript is accepted and stored but never
// executed by the evaluator.
const (
	StrategyCSS      Strategy = "css"
	StrategyChain    Strategy = "chain"
	StrategyScript   Strategy = "script"
	StrategyTemplate Strategy = "template"
)

// Valid reports whether s is one of the known strategies.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyCSS, StrategyChain, StrategyScript, StrategyTemplate:
		return true
	}
	return false
}

// ChainStep is one narrowing operation within a chain rule.
type ChainStep struct {
	Selector string `json:"selector" yaml:"selector"`

	// Text keeps only nodes whose rendered text contains it, ignoring case.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Nth keeps only the node at this index, if any.
	Nth *int `json:"nth,omitempty" yaml:"nth,omitempty"`
}

// Rule is the canonical description of how to extract text from a page.
// Rules returned by NormalizeRule are never mutated afterwards.
type Rule struct {
	Strategy         Strategy    `json:"strategy" yaml:"strategy"`
	Selector         string      `json:"selector,omitempty" yaml:"selector,omitempty"`
	Chain            []ChainStep `json:"chain" yaml:"chain"`
	ChainSequential  bool        `json:"chainSequential,omitempty" yaml:"chainSequential,omitempty"`
	Template         string      `json:"template,omitempty" yaml:"template,omitempty"`
	TemplateToJob    bool        `json:"templateToJob,omitempty" yaml:"templateToJob,omitempty"`
	TemplateToResult bool        `json:"templateToResult,omitempty" yaml:"templateToResult,omitempty"`
	Script           string      `json:"script" yaml:"script"`
}

// IsEmpty reports whether r carries nothing to evaluate: no selector, no
// chain step, no template and no script.
func (r *Rule) IsEmpty() bool {
	return strings.TrimSpace(r.Selector) == "" && len(r.Chain) == 0 &&
		strings.TrimSpace(r.Template) == "" && strings.TrimSpace(r.Script) == ""
}

// NormalizeRule converts untrusted input into a canonical Rule.
//
// A non-empty string becomes a css rule with that selector. Maps (as decoded
// from JSON or YAML), Rule values and JSON documents are normalized field by
// field: unknown strategies fall back to css, strings are trimmed, chain steps
// without a selector are dropped and nth is coerced to a non-negative integer
// or cleared. Anything else, including blank strings and nil, yields nil.
// Malformed fields are dropped silently.
func NormalizeRule(raw any) *Rule {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		sel := strings.TrimSpace(v)
		if sel == "" {
			return nil
		}
		return &Rule{Strategy: StrategyCSS, Selector: sel, Chain: []ChainStep{}}
	case *Rule:
		if v == nil {
			return nil
		}
		return normalizeRuleValue(*v)
	case Rule:
		return normalizeRuleValue(v)
	case json.RawMessage:
		return normalizeJSON(v)
	case []byte:
		return normalizeJSON(v)
	case map[string]any:
		return normalizeRuleMap(v)
	}
	return nil
}

func normalizeJSON(data []byte) *Rule {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch v.(type) {
	case string, map[string]any:
		return NormalizeRule(v)
	}
	return nil
}

func normalizeRuleValue(r Rule) *Rule {
	out := &Rule{
		Strategy:         normalizeStrategy(string(r.Strategy)),
		Selector:         strings.TrimSpace(r.Selector),
		Chain:            make([]ChainStep, 0, len(r.Chain)),
		ChainSequential:  r.ChainSequential,
		Template:         strings.TrimSpace(r.Template),
		TemplateToJob:    r.TemplateToJob,
		TemplateToResult: r.TemplateToResult,
		Script:           strings.TrimSpace(r.Script),
	}
	for _, step := range r.Chain {
		sel := strings.TrimSpace(step.Selector)
		if sel == "" {
			continue
		}
		ns := ChainStep{Selector: sel, Text: strings.TrimSpace(step.Text)}
		if step.Nth != nil && *step.Nth >= 0 {
			n := *step.Nth
			ns.Nth = &n
		}
		out.Chain = append(out.Chain, ns)
	}
	return out
}

func normalizeRuleMap(m map[string]any) *Rule {
	r := Rule{
		Strategy:         Strategy(stringField(m, "strategy")),
		Selector:         stringField(m, "selector"),
		ChainSequential:  boolField(m, "chainSequential", "chain_sequential"),
		Template:         stringField(m, "template"),
		TemplateToJob:    boolField(m, "templateToJob", "template_to_job"),
		TemplateToResult: boolField(m, "templateToResult", "template_to_result"),
		Script:           stringField(m, "script"),
	}
	if steps, ok := m["chain"].([]any); ok {
		for _, raw := range steps {
			if step, ok := normalizeStep(raw); ok {
				r.Chain = append(r.Chain, step)
			}
		}
	}
	return normalizeRuleValue(r)
}

func normalizeStep(raw any) (ChainStep, bool) {
	switch v := raw.(type) {
	case string:
		return ChainStep{Selector: v}, true
	case map[string]any:
		step := ChainStep{
			Selector: stringField(v, "selector"),
			Text:     stringField(v, "text"),
			Nth:      coerceIndex(v["nth"]),
		}
		return step, true
	}
	return ChainStep{}, false
}

func normalizeStrategy(s string) Strategy {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return StrategyCSS
	}
	return st
}

// coerceIndex converts a number or numeric string into a non-negative index.
func coerceIndex(v any) *int {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	i := int(math.Floor(f))
	return &i
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := m[key].(type) {
		case bool:
			return v
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err == nil {
				return b
			}
		}
	}
	return false
}
