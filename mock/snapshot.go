package mock

import (
	"context"

	"github.com/AndreyKolygin/jobgrab"
)

var _ jobgrab.Evaluator = (*Evaluator)(nil)

// Evaluator is a mock implementation of jobgrab.Evaluator.
type Evaluator struct {
	EvaluateFn func(snap *jobgrab.Snapshot, plan jobgrab.Plan) *jobgrab.ExtractionResult
}

func (e *Evaluator) Evaluate(snap *jobgrab.Snapshot, plan jobgrab.Plan) *jobgrab.ExtractionResult {
	return e.EvaluateFn(snap, plan)
}

var _ jobgrab.FrameInjector = (*FrameInjector)(nil)

// FrameInjector is a mock implementation of jobgrab.FrameInjector.
type FrameInjector struct {
	InjectAllFn func(ctx context.Context, tabID string, plan jobgrab.Plan) ([]*jobgrab.ExtractionResult, error)
}

func (i *FrameInjector) InjectAll(ctx context.Context, tabID string, plan jobgrab.Plan) ([]*jobgrab.ExtractionResult, error) {
	return i.InjectAllFn(ctx, tabID, plan)
}

var _ jobgrab.FrameCapturer = (*FrameCapturer)(nil)

// FrameCapturer is a mock implementation of jobgrab.FrameCapturer.
type FrameCapturer struct {
	CaptureFramesFn func(ctx context.Context, tabID string) ([]*jobgrab.Snapshot, error)
}

func (c *FrameCapturer) CaptureFrames(ctx context.Context, tabID string) ([]*jobgrab.Snapshot, error) {
	return c.CaptureFramesFn(ctx, tabID)
}

var _ jobgrab.TabService = (*TabService)(nil)

// TabService is a mock implementation of jobgrab.TabService.
type TabService struct {
	OpenTabFn  func(ctx context.Context, url string) (string, error)
	TabURLFn   func(ctx context.Context, tabID string) (string, error)
	CloseTabFn func(tabID string) error
}

func (s *TabService) OpenTab(ctx context.Context, url string) (string, error) {
	return s.OpenTabFn(ctx, url)
}

func (s *TabService) TabURL(ctx context.Context, tabID string) (string, error) {
	return s.TabURLFn(ctx, tabID)
}

func (s *TabService) CloseTab(tabID string) error {
	if s.CloseTabFn == nil {
		return nil
	}
	return s.CloseTabFn(tabID)
}

var _ jobgrab.SnapshotFetcher = (*SnapshotFetcher)(nil)

// SnapshotFetcher is a mock implementation of jobgrab.SnapshotFetcher.
type SnapshotFetcher struct {
	FetchSnapshotsFn func(ctx context.Context, url string) ([]*jobgrab.Snapshot, error)
}

func (f *SnapshotFetcher) FetchSnapshots(ctx context.Context, url string) ([]*jobgrab.Snapshot, error) {
	return f.FetchSnapshotsFn(ctx, url)
}

var _ jobgrab.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of jobgrab.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
