package extract

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"golang.org/x/sync/errgroup"
)

// ProgressEvent reports batch progress.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc receives progress events. Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// DefaultRetryDelays returns the backoff delays for opening a tab: 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// BatchResult is the outcome for one URL. Result is nil when the grabber had
// nothing to extract; Err is set when the page could not be loaded at all.
type BatchResult struct {
	URL    string
	Result *jobgrab.ExtractionResult
	Err    error
}

// Batch grabs many pages with bounded concurrency and per-domain pacing.
type Batch struct {
	Tabs    jobgrab.TabService
	Grabber Grabber

	// Limiter paces tab opens per domain. Optional.
	Limiter jobgrab.DomainLimiter

	// Concurrency bounds the number of open tabs. Defaults to 4.
	Concurrency int

	// RetryDelays are the waits between OpenTab attempts. Nil selects
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration
}

// Run grabs every URL and returns one BatchResult per URL in input order.
// It fails only when ctx ends before every URL was attempted.
func (b *Batch) Run(ctx context.Context, urls []string, progress ProgressFunc) ([]BatchResult, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	type indexed struct {
		i int
		BatchResult
	}
	resultCh := make(chan indexed, len(urls))

	var completed atomic.Int64
	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- indexed{i: i, BatchResult: b.grabOne(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]BatchResult, len(urls))
	for r := range resultCh {
		results[r.i] = r.BatchResult
		n := int(completed.Add(1))
		if progress == nil {
			continue
		}
		event := ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: r.URL}
		if r.Err != nil {
			event.Type = ProgressFailed
			event.Error = r.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: int(completed.Load()), Total: total})
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (b *Batch) grabOne(ctx context.Context, rawURL string) BatchResult {
	res := BatchResult{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		res.Err = jobgrab.Errorf(jobgrab.EINVALID, "invalid URL %q", rawURL)
		return res
	}
	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx, u.Hostname()); err != nil {
			res.Err = err
			return res
		}
	}

	tabID, err := b.openWithRetry(ctx, rawURL)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = b.Tabs.CloseTab(tabID) }()

	res.Result = b.Grabber.Grab(ctx, tabID, rawURL)
	return res
}

// openWithRetry opens a tab, retrying with the configured delays.
func (b *Batch) openWithRetry(ctx context.Context, rawURL string) (string, error) {
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		tabID, err := b.Tabs.OpenTab(ctx, rawURL)
		if err == nil {
			return tabID, nil
		}
		lastErr = err

		if attempt == len(delays) {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return "", lastErr
}
