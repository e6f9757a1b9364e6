package goquery

import (
	"net/url"
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/PuerkitoBio/goquery"
)

// SelectorConfig defines a CSS selector with its priority and source label.
type SelectorConfig struct {
	Selector string
	Priority jobgrab.LinkPriority
	Source   string
}

// fallbackPathHints are path fragments that usually mark a posting URL on
// pages without recognizable board markup.
var fallbackPathHints = []string{"/job", "/career", "/position", "/opening", "/vacanc", "/role"}

// ExtractLinksWithConfigs extracts links from HTML using the provided selector configurations.
// Links are deduplicated by URL, keeping the highest priority version.
// The returned links maintain document order based on first occurrence.
//
// Hosted boards often link postings on a different host than the listing
// (an embedded board on a company site), so external links are kept.
func ExtractLinksWithConfigs(html string, baseURL string, configs []SelectorConfig) ([]jobgrab.JobLink, error) {
	return extractLinksWithConfigs(html, baseURL, configs, false)
}

// ExtractLinksWithConfigsAndFallback is like ExtractLinksWithConfigs but also
// adds same-host anchors whose path looks like a posting, at PriorityFallback.
func ExtractLinksWithConfigsAndFallback(html string, baseURL string, configs []SelectorConfig) ([]jobgrab.JobLink, error) {
	return extractLinksWithConfigs(html, baseURL, configs, true)
}

func extractLinksWithConfigs(html string, baseURL string, configs []SelectorConfig, includeFallback bool) ([]jobgrab.JobLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, jobgrab.Errorf(jobgrab.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var links []jobgrab.JobLink

	add := func(sel *goquery.Selection, priority jobgrab.LinkPriority, source string, filter func(*url.URL) bool) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		if filter != nil && !filter(resolved) {
			return
		}

		key := resolved.String()
		link := jobgrab.JobLink{
			URL:      key,
			Priority: priority,
			Text:     strings.Join(strings.Fields(sel.Text()), " "),
			Source:   source,
		}
		if idx, ok := seen[key]; ok {
			if priority > links[idx].Priority {
				links[idx] = link
			}
			return
		}
		seen[key] = len(links)
		links = append(links, link)
	}

	for _, config := range configs {
		doc.Find(config.Selector).Each(func(_ int, sel *goquery.Selection) {
			add(sel, config.Priority, config.Source, nil)
		})
	}

	if includeFallback {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			add(sel, jobgrab.PriorityFallback, "fallback", func(u *url.URL) bool {
				return u.Host == base.Host && looksLikePosting(u.Path)
			})
		})
	}

	return links, nil
}

func looksLikePosting(path string) bool {
	path = strings.ToLower(path)
	for _, hint := range fallbackPathHints {
		if strings.Contains(path, hint) {
			return true
		}
	}
	return false
}

// resolveURL resolves a relative URL against a base URL.
// Returns nil if the href cannot be parsed, is not http(s), or points back at
// the base page. Fragments are stripped for deduplication.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}

	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if resolved.String() == baseNoFragment.String() {
		return nil
	}
	return resolved
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
