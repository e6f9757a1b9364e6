// Package extract drives rule evaluation across the frames of a tab: the
// retrying orchestrator, automatic grabbing on navigation, and batch grabbing
// of many pages.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Timing defaults and floors for Options.
const (
	DefaultWait = 3000 * time.Millisecond
	MinWait     = 800 * time.Millisecond
	DefaultPoll = 160 * time.Millisecond
	MinPoll     = 80 * time.Millisecond
)

// Options bounds a single extraction. Zero values select the defaults;
// values below the floors are raised to them.
type Options struct {
	Wait time.Duration
	Poll time.Duration
}

// Resolved returns o with defaults applied and floors enforced. Callers
// that spend part of the budget outside Extract use it so both agree.
func (o Options) Resolved() Options {
	return Options{Wait: o.wait(), Poll: o.poll()}
}

func (o Options) wait() time.Duration {
	if o.Wait == 0 {
		return DefaultWait
	}
	return max(o.Wait, MinWait)
}

func (o Options) poll() time.Duration {
	if o.Poll == 0 {
		return DefaultPoll
	}
	return max(o.Poll, MinPoll)
}

// State is a step of the extraction state machine.
type State int

// Extraction states. Success, TimedOut and Cancelled are terminal.
const (
	StateProbing State = iota
	StateRetrying
	StateSuccess
	StateTimedOut
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateProbing:
		return "probing"
	case StateRetrying:
		return "retrying"
	case StateSuccess:
		return "success"
	case StateTimedOut:
		return "timed_out"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Orchestrator evaluates a rule in every frame of a tab, retrying until a
// frame yields text or the wait budget runs out.
type Orchestrator struct {
	Injector jobgrab.FrameInjector

	// Results receives every final result. Optional.
	Results jobgrab.ResultService

	// Tabs resolves the tab URL recorded with stored results. Optional.
	Tabs jobgrab.TabService

	// Logger defaults to a discarding logger.
	Logger *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(injector jobgrab.FrameInjector, results jobgrab.ResultService) *Orchestrator {
	return &Orchestrator{Injector: injector, Results: results}
}

// Extract normalizes raw (anything NormalizeRule accepts), then probes every
// frame of tabID until some frame yields text. It never returns nil and never
// reports failure other than through the result.
func (o *Orchestrator) Extract(ctx context.Context, tabID string, raw any, opts Options) *jobgrab.ExtractionResult {
	rule := jobgrab.NormalizeRule(raw)
	if rule == nil {
		res := jobgrab.Fail(jobgrab.ReasonInvalidRule)
		o.persist(ctx, tabID, nil, res)
		return res
	}

	r := &run{
		o:        o,
		tabID:    tabID,
		plan:     jobgrab.Compile(rule),
		deadline: o.now().Add(opts.wait()),
		poll:     opts.poll(),
		state:    StateProbing,
	}
	res := r.loop(ctx)

	o.logger().Debug("extract",
		"tab", tabID,
		"strategy", rule.Strategy,
		"state", r.state.String(),
		"attempts", r.attempts,
		"ok", res.OK,
		"error", res.Error,
	)
	o.persist(ctx, tabID, rule, res)
	return res
}

// run is the state of one Extract call.
type run struct {
	o        *Orchestrator
	tabID    string
	plan     jobgrab.Plan
	deadline time.Time
	poll     time.Duration

	state    State
	attempts int
	last     *jobgrab.ExtractionResult
	lastErr  string
	result   *jobgrab.ExtractionResult
}

func (r *run) loop(ctx context.Context) *jobgrab.ExtractionResult {
	for {
		switch r.state {
		case StateProbing:
			r.probe(ctx)
		case StateRetrying:
			r.retry(ctx)
		case StateSuccess:
			return r.result
		case StateTimedOut:
			return r.timedOut()
		case StateCancelled:
			return jobgrab.Fail(context.Cause(ctx).Error())
		}
	}
}

func (r *run) probe(ctx context.Context) {
	if ctx.Err() != nil {
		r.state = StateCancelled
		return
	}
	r.attempts++

	results, err := r.o.Injector.InjectAll(ctx, r.tabID, r.plan)
	if err != nil {
		r.lastErr = err.Error()
		r.state = StateRetrying
		return
	}

	m := Merge(results)
	if m.Last != nil {
		r.last = m.Last
	}
	if m.Err != "" {
		r.lastErr = m.Err
	}
	if m.Result != nil {
		r.result = m.Result
		r.state = StateSuccess
		return
	}
	r.state = StateRetrying
}

// retry sleeps one poll interval, then probes again unless the deadline has
// passed. An injection that finished late still counted above.
func (r *run) retry(ctx context.Context) {
	timer := time.NewTimer(r.poll)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.state = StateCancelled
		return
	case <-timer.C:
	}

	if !r.o.now().Before(r.deadline) {
		r.state = StateTimedOut
		return
	}
	r.state = StateProbing
}

func (r *run) timedOut() *jobgrab.ExtractionResult {
	if r.last != nil && r.last.HasTemplate() {
		return r.last
	}
	if r.lastErr != "" {
		return jobgrab.Fail(r.lastErr)
	}
	return jobgrab.Fail(jobgrab.ReasonTimeout)
}

// Merged is the reduction of one probe's per-frame results.
type Merged struct {
	// Result is the successful merged result, or nil when no frame produced
	// text.
	Result *jobgrab.ExtractionResult

	// Last is the last non-nil frame result, successful or not.
	Last *jobgrab.ExtractionResult

	// Err is the error of the last failed frame result.
	Err string
}

// Merge reduces per-frame results left to right. Non-empty texts are joined
// with a blank line; the first frame carrying a template payload supplies
// the payload and targets.
func Merge(results []*jobgrab.ExtractionResult) Merged {
	var (
		m     Merged
		texts []string
		count int
		tmpl  *jobgrab.ExtractionResult
	)
	for _, res := range results {
		if res == nil {
			continue
		}
		m.Last = res
		if t := strings.TrimSpace(res.Text); t != "" {
			texts = append(texts, t)
			count += res.Count
		} else if res.Error != "" {
			m.Err = res.Error
		}
		if tmpl == nil && res.HasTemplate() {
			tmpl = res
		}
	}
	if len(texts) == 0 {
		return m
	}

	merged := &jobgrab.ExtractionResult{
		OK:    true,
		Text:  strings.Join(texts, "\n\n"),
		Count: count,
	}
	if tmpl != nil {
		merged.TemplateText = tmpl.TemplateText
		merged.TemplateEntries = append([]jobgrab.TemplateEntry(nil), tmpl.TemplateEntries...)
		if tmpl.TemplateTargets != nil {
			targets := *tmpl.TemplateTargets
			merged.TemplateTargets = &targets
		}
	}
	m.Result = merged
	return m
}

// persist stores the final result. Failures are logged, never returned.
func (o *Orchestrator) persist(ctx context.Context, tabID string, rule *jobgrab.Rule, res *jobgrab.ExtractionResult) {
	if o.Results == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var url string
	if o.Tabs != nil {
		if u, err := o.Tabs.TabURL(ctx, tabID); err == nil {
			url = u
		}
	}

	stored := &jobgrab.StoredResult{
		TabID:            tabID,
		URL:              url,
		Rule:             rule,
		ExtractionResult: *res,
	}
	if err := o.Results.SaveResult(ctx, stored); err != nil {
		o.logger().Warn("persist result", "tab", tabID, "error", err)
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
