package extract

import (
	"context"

	"github.com/AndreyKolygin/jobgrab"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ jobgrab.FrameInjector = (*Injector)(nil)

// Injector captures every frame of a tab and evaluates the plan against each
// snapshot concurrently.
type Injector struct {
	Frames    jobgrab.FrameCapturer
	Evaluator jobgrab.Evaluator
}

// NewInjector creates a new Injector.
func NewInjector(frames jobgrab.FrameCapturer, evaluator jobgrab.Evaluator) *Injector {
	return &Injector{Frames: frames, Evaluator: evaluator}
}

// InjectAll returns one result per captured frame, in capture order.
func (i *Injector) InjectAll(ctx context.Context, tabID string, plan jobgrab.Plan) ([]*jobgrab.ExtractionResult, error) {
	snaps, err := i.Frames.CaptureFrames(ctx, tabID)
	if err != nil {
		return nil, err
	}

	results := make([]*jobgrab.ExtractionResult, len(snaps))
	var g errgroup.Group
	for n, snap := range snaps {
		if snap == nil {
			continue
		}
		g.Go(func() error {
			results[n] = i.Evaluator.Evaluate(snap, plan)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
