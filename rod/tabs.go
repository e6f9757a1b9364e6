package rod

import (
	"context"
	"sync"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Compile-time interface verification.
var (
	_ jobgrab.TabService    = (*TabService)(nil)
	_ jobgrab.FrameCapturer = (*TabService)(nil)
)

// TabService opens browser tabs and serializes their frames. Tab IDs are
// Chrome target IDs.
type TabService struct {
	manager *BrowserManager

	mu    sync.Mutex
	pages map[string]*rod.Page
}

// NewTabService creates a new TabService backed by manager.
func NewTabService(manager *BrowserManager) *TabService {
	return &TabService{
		manager: manager,
		pages:   make(map[string]*rod.Page),
	}
}

// OpenTab creates a tab and starts navigating it to url. It returns once
// navigation has committed, before the page finishes loading.
func (s *TabService) OpenTab(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	browser := s.manager.Browser()
	if browser == nil || s.manager.Closed() {
		return "", jobgrab.Errorf(jobgrab.EINVALID, "browser is closed")
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	s.manager.PageOpened()

	if err := page.Context(ctx).Navigate(url); err != nil {
		_ = page.Close()
		s.manager.PageClosed()
		return "", err
	}

	id := string(page.TargetID)
	s.mu.Lock()
	s.pages[id] = page
	s.mu.Unlock()
	return id, nil
}

// WaitLoad blocks until the tab's load event has fired.
func (s *TabService) WaitLoad(ctx context.Context, tabID string) error {
	page, err := s.page(tabID)
	if err != nil {
		return err
	}
	return page.Context(ctx).WaitLoad()
}

// TabURL returns the current URL of a tab.
func (s *TabService) TabURL(ctx context.Context, tabID string) (string, error) {
	page, err := s.page(tabID)
	if err != nil {
		return "", err
	}
	info, err := page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// CaptureFrames serializes the tab's top frame and its nested frames.
func (s *TabService) CaptureFrames(ctx context.Context, tabID string) ([]*jobgrab.Snapshot, error) {
	page, err := s.page(tabID)
	if err != nil {
		return nil, err
	}
	return captureFrames(ctx, page)
}

// CloseTab closes a tab. Closing an unknown tab is not an error.
func (s *TabService) CloseTab(tabID string) error {
	s.mu.Lock()
	page, ok := s.pages[tabID]
	delete(s.pages, tabID)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	s.manager.PageClosed()
	return page.Close()
}

// Close closes every open tab.
func (s *TabService) Close() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pages))
	for id := range s.pages {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := s.CloseTab(id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *TabService) page(tabID string) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[tabID]
	if !ok {
		return nil, jobgrab.Errorf(jobgrab.ENOTFOUND, "tab %q not found", tabID)
	}
	return page, nil
}
