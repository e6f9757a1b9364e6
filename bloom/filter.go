// Package bloom remembers which page URLs have already been grabbed.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a concurrency-safe Bloom filter over page URLs. URLs are keyed
// without their fragment and with a lower-cased host, so in-page navigation
// and host casing do not count as new pages.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL.
func (f *Filter) Add(rawURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(Key(rawURL))
}

// Test returns true if the URL might have been recorded.
// False positives are possible; false negatives are not.
func (f *Filter) Test(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(Key(rawURL))
}

// EstimatedCount returns the approximate number of URLs recorded.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// Key returns the form of rawURL the filter stores. Unparseable input is
// used as is.
func Key(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
