// Package http captures pages over plain HTTP for sites that render job
// postings server-side. Scripts are never run, so shadow roots and
// client-rendered boards are invisible to it.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies requests made by the fetcher.
const DefaultUserAgent = "Mozilla/5.0 (compatible; jobgrab/1.0)"

// maxBodySize caps a single response body.
const maxBodySize = 10 << 20

// Ensure Fetcher implements jobgrab.SnapshotFetcher at compile time.
var _ jobgrab.SnapshotFetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with HTTP GET requests. With WithFrames it also
// fetches the documents of the page's iframes, one level deep.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	frames    bool
	now       func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithFrames makes FetchSnapshots follow iframe sources.
func WithFrames(follow bool) Option {
	return func(f *Fetcher) {
		f.frames = follow
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// FetchSnapshots retrieves rawURL and returns it as a single snapshot,
// followed by one snapshot per reachable iframe when frames are enabled.
// Frames that fail to load are skipped.
func (f *Fetcher) FetchSnapshots(ctx context.Context, rawURL string) ([]*jobgrab.Snapshot, error) {
	top, err := f.fetch(ctx, rawURL, "0")
	if err != nil {
		return nil, err
	}
	snaps := []*jobgrab.Snapshot{top}
	if !f.frames {
		return snaps, nil
	}

	for i, src := range frameSources(top) {
		snap, err := f.fetch(ctx, src, fmt.Sprintf("%d", i+1))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL, frameID string) (*jobgrab.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	html, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return &jobgrab.Snapshot{
		FrameID:    frameID,
		URL:        resp.Request.URL.String(),
		HTML:       string(html),
		CapturedAt: f.now().UTC(),
	}, nil
}

// frameSources returns the absolute http(s) sources of the snapshot's
// iframes in document order, without duplicates.
func frameSources(snap *jobgrab.Snapshot) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
	if err != nil {
		return nil
	}
	base, err := url.Parse(snap.URL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	doc.Find("iframe[src], frame[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return
		}
		u := base.ResolveReference(ref)
		if u.Scheme != "http" && u.Scheme != "https" {
			return
		}
		u.Fragment = ""
		if abs := u.String(); !seen[abs] && abs != snap.URL {
			seen[abs] = true
			out = append(out, abs)
		}
	})
	return out
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
