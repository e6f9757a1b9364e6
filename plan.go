package jobgrab

// Plan is a compiled, plain-data extraction plan. It is the only value that
// crosses from the host side (normalization, matching, retry) to the side
// that reads a document, so it must never capture functions or host state.
//
// Concrete variants are CSSPlan, ChainPlan, TemplatePlan and
// UnimplementedPlan.
type Plan interface {
	// Strategy returns the strategy the plan was compiled from.
	Strategy() Strategy

	plan()
}

// CSSPlan collects every node matching a comma-separated selector list.
type CSSPlan struct {
	Selector string
	Template string
	Targets  TemplateTargets
}

// ChainPlan narrows through Steps, either in parallel per scope or with each
// step evaluated independently when Sequential is set.
type ChainPlan struct {
	Steps      []ChainStep
	Sequential bool
	Template   string
	Targets    TemplateTargets
}

// TemplatePlan renders Source against the page's template variables.
type TemplatePlan struct {
	Source  string
	Targets TemplateTargets
}

// UnimplementedPlan stands for a strategy the evaluator does not run.
type UnimplementedPlan struct {
	Tag Strategy
}

func (CSSPlan) Strategy() Strategy             { return StrategyCSS }
func (ChainPlan) Strategy() Strategy           { return StrategyChain }
func (TemplatePlan) Strategy() Strategy        { return StrategyTemplate }
func (p UnimplementedPlan) Strategy() Strategy { return p.Tag }

func (CSSPlan) plan()           {}
func (ChainPlan) plan()         {}
func (TemplatePlan) plan()      {}
func (UnimplementedPlan) plan() {}

// Compile turns a canonical rule into a plan. Script rules compile to an
// UnimplementedPlan: their body is stored but never executed.
func Compile(r *Rule) Plan {
	if r == nil {
		return UnimplementedPlan{}
	}
	targets := TemplateTargets{ToJob: r.TemplateToJob, ToResult: r.TemplateToResult}
	switch r.Strategy {
	case StrategyCSS:
		return CSSPlan{Selector: r.Selector, Template: r.Template, Targets: targets}
	case StrategyChain:
		steps := make([]ChainStep, len(r.Chain))
		copy(steps, r.Chain)
		return ChainPlan{Steps: steps, Sequential: r.ChainSequential, Template: r.Template, Targets: targets}
	case StrategyTemplate:
		return TemplatePlan{Source: r.Template, Targets: targets}
	}
	return UnimplementedPlan{Tag: r.Strategy}
}
