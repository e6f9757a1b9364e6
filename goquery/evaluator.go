// Package goquery evaluates extraction plans against HTML snapshots of a
// frame using goquery and cascadia.
package goquery

import (
	"fmt"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"golang.org/x/net/html"
)

// Ensure Evaluator implements jobgrab.Evaluator at compile time.
var _ jobgrab.Evaluator = (*Evaluator)(nil)

// Evaluator runs plans against frame snapshots. Each call parses the snapshot
// once and reads it without mutation; it is safe for concurrent use.
type Evaluator struct {
	// Articles supplies the "article" variable and metadata fallbacks.
	// Optional.
	Articles jobgrab.ArticleExtractor

	// Converter renders "article:markdown". Optional.
	Converter jobgrab.Converter

	// Now returns the time used for the "now" variable when the snapshot
	// carries no capture time. Defaults to time.Now.
	Now func() time.Time
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(articles jobgrab.ArticleExtractor, converter jobgrab.Converter) *Evaluator {
	return &Evaluator{Articles: articles, Converter: converter}
}

// Evaluate runs plan against snap. It never panics; any failure becomes a
// result with OK unset and Error describing it.
func (e *Evaluator) Evaluate(snap *jobgrab.Snapshot, plan jobgrab.Plan) (result *jobgrab.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = jobgrab.Fail(fmt.Sprint(r))
		}
	}()

	if snap == nil {
		return jobgrab.Fail("no document")
	}
	root, err := html.Parse(strings.NewReader(snap.HTML))
	if err != nil {
		return jobgrab.Fail(err.Error())
	}
	sealShadowRoots(root)

	ev := &evaluation{
		snap:      snap,
		root:      root,
		now:       e.now(snap),
		articles:  e.Articles,
		converter: e.Converter,
	}

	switch p := plan.(type) {
	case jobgrab.CSSPlan:
		return ev.css(p)
	case jobgrab.ChainPlan:
		return ev.chain(p)
	case jobgrab.TemplatePlan:
		return ev.template(p)
	case jobgrab.UnimplementedPlan:
		return jobgrab.Fail(jobgrab.ReasonUnknownStrategy)
	}
	return jobgrab.Fail(jobgrab.ReasonUnknownStrategy)
}

func (e *Evaluator) now(snap *jobgrab.Snapshot) time.Time {
	if !snap.CapturedAt.IsZero() {
		return snap.CapturedAt
	}
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// evaluation holds the state of a single Evaluate call.
type evaluation struct {
	snap      *jobgrab.Snapshot
	root      *html.Node
	now       time.Time
	articles  jobgrab.ArticleExtractor
	converter jobgrab.Converter

	// vars is built on first template use and reused for the rest of the call.
	vars map[string]string
}

func (ev *evaluation) css(p jobgrab.CSSPlan) *jobgrab.ExtractionResult {
	if strings.TrimSpace(p.Selector) == "" {
		return ev.withTemplate(jobgrab.Fail(jobgrab.ReasonNoSelector), p.Template, p.Targets)
	}
	group, err := parseSelectorList(p.Selector)
	if err != nil {
		return jobgrab.Fail(err.Error())
	}

	nodes := collectNodes(ev.root, group)
	return ev.withTemplate(textResult(joinTexts(nodes), len(nodes)), p.Template, p.Targets)
}

func (ev *evaluation) chain(p jobgrab.ChainPlan) *jobgrab.ExtractionResult {
	if len(p.Steps) == 0 {
		return ev.withTemplate(jobgrab.Fail(jobgrab.ReasonEmptyChain), p.Template, p.Targets)
	}

	var (
		text  string
		count int
		err   error
	)
	if p.Sequential {
		text, count, err = ev.chainSequential(p.Steps)
	} else {
		text, count, err = ev.chainNarrowing(p.Steps)
	}
	if err != nil {
		return jobgrab.Fail(err.Error())
	}
	return ev.withTemplate(textResult(text, count), p.Template, p.Targets)
}

// chainNarrowing feeds the nodes found by each step into the next step as
// scopes, stopping as soon as a step finds nothing.
func (ev *evaluation) chainNarrowing(steps []jobgrab.ChainStep) (string, int, error) {
	scopes := []*html.Node{ev.root}
	for _, step := range steps {
		group, err := parseSelectorList(step.Selector)
		if err != nil {
			return "", 0, err
		}

		next := newCollector()
		for _, scope := range scopes {
			for _, n := range filterNodes(collectNodes(scope, group), step.Text, step.Nth) {
				next.add(n)
			}
		}
		scopes = next.nodes
		if len(scopes) == 0 {
			return "", 0, nil
		}
	}
	return joinTexts(scopes), len(scopes), nil
}

// chainSequential evaluates every step against the whole document and joins
// the non-empty texts.
func (ev *evaluation) chainSequential(steps []jobgrab.ChainStep) (string, int, error) {
	var (
		parts []string
		count int
	)
	for _, step := range steps {
		group, err := parseSelectorList(step.Selector)
		if err != nil {
			return "", 0, err
		}
		nodes := filterNodes(collectNodes(ev.root, group), step.Text, step.Nth)
		count += len(nodes)
		if t := joinTexts(nodes); t != "" {
			parts = append(parts, t)
		}
	}
	return jobgrab.NormalizeText(strings.Join(parts, "\n\n")), count, nil
}

func (ev *evaluation) template(p jobgrab.TemplatePlan) *jobgrab.ExtractionResult {
	if strings.TrimSpace(p.Source) == "" {
		return jobgrab.Fail(jobgrab.ReasonEmptyTemplate)
	}
	out := jobgrab.ApplyTemplate(p.Source, ev.variables())
	targets := p.Targets

	res := textResult(out.Text, len(out.Entries))
	res.TemplateText = out.Text
	res.TemplateEntries = out.Entries
	res.TemplateTargets = &targets
	return res
}

// withTemplate attaches the rendered template payload when tmpl is set.
func (ev *evaluation) withTemplate(res *jobgrab.ExtractionResult, tmpl string, targets jobgrab.TemplateTargets) *jobgrab.ExtractionResult {
	if strings.TrimSpace(tmpl) == "" {
		return res
	}
	out := jobgrab.ApplyTemplate(tmpl, ev.variables())
	res.TemplateText = out.Text
	res.TemplateEntries = out.Entries
	res.TemplateTargets = &targets
	return res
}

func textResult(text string, count int) *jobgrab.ExtractionResult {
	res := &jobgrab.ExtractionResult{OK: text != "", Text: text, Count: count}
	if !res.OK {
		res.Error = jobgrab.ReasonNotFound
	}
	return res
}
