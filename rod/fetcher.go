package rod

import (
	"context"
	"time"

	"github.com/AndreyKolygin/jobgrab"
)

// Ensure Fetcher implements jobgrab.SnapshotFetcher at compile time.
var _ jobgrab.SnapshotFetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single FetchSnapshots call.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher loads a page in a throwaway tab and captures its frames once
// scripts have run.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	tabs    *TabService
	timeout time.Duration
	settle  time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout bounds each fetch. Defaults to 30s.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithSettle waits this long after the load event so client-rendered
// boards can hydrate. Defaults to no wait.
func WithSettle(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.settle = d
	}
}

// WithManager reuses an existing browser instead of launching one. The
// Fetcher then leaves closing the browser to the caller.
func WithManager(bm *BrowserManager) FetcherOption {
	return func(f *Fetcher) {
		f.manager = bm
	}
}

// NewFetcher creates a Fetcher, launching headless Chrome unless
// WithManager supplies a browser.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	owned := f.manager == nil
	if owned {
		bm, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = bm
	}
	f.tabs = NewTabService(f.manager)
	if !owned {
		f.manager = nil
	}
	return f, nil
}

// FetchSnapshots navigates to url, waits for the load event and returns a
// snapshot per frame.
func (f *Fetcher) FetchSnapshots(ctx context.Context, url string) ([]*jobgrab.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.tabs.manager.Closed() {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "fetcher is closed")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	tabID, err := f.tabs.OpenTab(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.tabs.CloseTab(tabID) }()

	if err := f.tabs.WaitLoad(ctx, tabID); err != nil {
		return nil, err
	}
	if f.settle > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.settle):
		}
	}

	return f.tabs.CaptureFrames(ctx, tabID)
}

// Close releases browser resources when the Fetcher launched its own
// browser. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if f.manager == nil {
		return f.tabs.Close()
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.tabs.manager.LauncherPID()
}
