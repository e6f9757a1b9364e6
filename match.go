package jobgrab

import (
	"net/url"
	"regexp"
	"strings"
)

// WildcardOptions configures WildcardToRegexp.
type WildcardOptions struct {
	// Unanchored disables the implicit ^ and $ around the pattern.
	Unanchored bool
}

// WildcardToRegexp compiles a wildcard pattern into a case-insensitive
// regular expression. "*" matches any run of characters and "?" matches a
// single character; everything else is literal.
func WildcardToRegexp(pattern string, opts WildcardOptions) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)")
	if !opts.Unanchored {
		b.WriteString("^")
	}
	for _, part := range splitWildcard(pattern) {
		switch part {
		case "*":
			b.WriteString(".*")
		case "?":
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(part))
		}
	}
	if !opts.Unanchored {
		b.WriteString("$")
	}
	return regexp.Compile(b.String())
}

// splitWildcard splits a pattern into literal runs and single wildcard tokens.
func splitWildcard(pattern string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' && pattern[i] != '?' {
			continue
		}
		if i > start {
			parts = append(parts, pattern[start:i])
		}
		parts = append(parts, pattern[i:i+1])
		start = i + 1
	}
	if start < len(pattern) {
		parts = append(parts, pattern[start:])
	}
	return parts
}

// regexLiteral matches patterns written as /body/flags.
var regexLiteral = regexp.MustCompile(`^/(.+)/([a-z]*)$`)

// SiteMatches reports whether rawURL matches pattern. Three pattern forms are
// tried in order: a regex literal (/body/flags) applied to the full URL, a
// full-URL wildcard (any pattern containing "://"), and host[/path] where the
// host matches by suffix ("*.example.com" covers example.com and its
// subdomains) and the optional path is an anchored wildcard over the URL path.
// A bare trailing slash ("example.com/") sets no path constraint. Malformed URLs and patterns never match.
func SiteMatches(rawURL, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || rawURL == "" {
		return false
	}

	if m := regexLiteral.FindStringSubmatch(pattern); m != nil {
		re, err := compileRegexLiteral(m[1], m[2])
		if err != nil {
			return false
		}
		return re.MatchString(rawURL)
	}

	if strings.Contains(pattern, "://") {
		re, err := WildcardToRegexp(pattern, WildcardOptions{})
		if err != nil {
			return false
		}
		return re.MatchString(rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}

	hostPattern, pathPattern, hasPath := strings.Cut(pattern, "/")
	if !hostMatches(strings.ToLower(u.Hostname()), strings.ToLower(hostPattern)) {
		return false
	}
	if !hasPath || pathPattern == "" {
		return true
	}

	re, err := WildcardToRegexp("/"+pathPattern, WildcardOptions{})
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return re.MatchString(path)
}

// hostMatches compares a lower-cased host with a lower-cased host pattern.
func hostMatches(host, pattern string) bool {
	pattern = strings.TrimSuffix(pattern, ".")
	if i := strings.LastIndex(pattern, ":"); i >= 0 && !strings.Contains(pattern[i:], "*") {
		pattern = pattern[:i]
	}
	if pattern == "" {
		return false
	}
	if pattern == "*" {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return host == suffix || strings.HasSuffix(host, "."+suffix)
	}
	if strings.ContainsAny(pattern, "*?") {
		re, err := WildcardToRegexp(pattern, WildcardOptions{})
		if err != nil {
			return false
		}
		return re.MatchString(host)
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

// compileRegexLiteral translates JavaScript-style flags into inline flags.
// Flags without a Go equivalent (g, u, y, d) are ignored.
func compileRegexLiteral(body, flags string) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'g', 'u', 'y', 'd':
		default:
			return nil, Errorf(EINVALID, "unsupported regex flag %q", f)
		}
	}
	if inline.Len() > 0 {
		body = "(?" + inline.String() + ")" + body
	}
	return regexp.Compile(body)
}

// FindMatchingRule returns the first active rule whose host (or legacy
// pattern) matches rawURL. Rule order is the only tie-break.
func FindMatchingRule(rules []*SiteRule, rawURL string) *SiteRule {
	for _, r := range rules {
		if r == nil || !r.IsActive() {
			continue
		}
		pattern := r.Host
		if strings.TrimSpace(pattern) == "" {
			pattern = r.Pattern
		}
		if SiteMatches(rawURL, pattern) {
			return r
		}
	}
	return nil
}
