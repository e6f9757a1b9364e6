package jobgrab

import (
	"context"
	"time"
)

// Snapshot is a serialized frame: its URL, its HTML with open shadow roots
// written as <template shadowrootmode="open"> inside their hosts, and the
// user's selection at capture time.
type Snapshot struct {
	FrameID       string    `json:"frameId" yaml:"frameId"`
	URL           string    `json:"url" yaml:"url"`
	HTML          string    `json:"-" yaml:"-"`
	SelectionText string    `json:"selectionText,omitempty" yaml:"selectionText,omitempty"`
	SelectionHTML string    `json:"selectionHtml,omitempty" yaml:"selectionHtml,omitempty"`
	CapturedAt    time.Time `json:"capturedAt" yaml:"capturedAt"`
}

// Evaluator runs a plan against one frame.
type Evaluator interface {
	// Evaluate never panics and never returns a nil result; failures are
	// reported through ExtractionResult.OK and Error.
	Evaluate(snap *Snapshot, plan Plan) *ExtractionResult
}

// FrameInjector evaluates a plan in every frame of a tab.
type FrameInjector interface {
	// InjectAll returns one result per frame, top frame first. An error
	// means no frame could be reached at all.
	InjectAll(ctx context.Context, tabID string, plan Plan) ([]*ExtractionResult, error)
}

// FrameCapturer serializes the frames of a tab.
type FrameCapturer interface {
	// CaptureFrames returns one snapshot per reachable frame, top frame
	// first. Returns ENOTFOUND if the tab does not exist.
	CaptureFrames(ctx context.Context, tabID string) ([]*Snapshot, error)
}

// TabService opens and closes browser tabs.
type TabService interface {
	// OpenTab navigates a new tab to url and returns its identifier.
	// It does not wait for the page to finish rendering.
	OpenTab(ctx context.Context, url string) (string, error)

	// TabURL returns the current URL of a tab.
	// Returns ENOTFOUND if the tab does not exist.
	TabURL(ctx context.Context, tabID string) (string, error)

	// CloseTab closes a tab. Closing an unknown tab is not an error.
	CloseTab(tabID string) error
}

// SnapshotFetcher captures every frame of a page.
type SnapshotFetcher interface {
	FetchSnapshots(ctx context.Context, url string) ([]*Snapshot, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	Wait(ctx context.Context, domain string) error
}
