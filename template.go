package jobgrab

import (
	"regexp"
	"strings"
)

var (
	placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	trailingWSRe  = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// TemplateOutput is the result of ApplyTemplate.
type TemplateOutput struct {
	Text string

	// Keys lists every distinct key referenced, in first-use order.
	Keys []string

	// Entries lists referenced keys with a non-empty value, in first-use order.
	Entries []TemplateEntry
}

// ApplyTemplate replaces every {{key}} in tmpl with vars[key], or the empty
// string when the key is unknown. The rendered text is passed through
// NormalizeText.
func ApplyTemplate(tmpl string, vars map[string]string) TemplateOutput {
	var out TemplateOutput
	seen := make(map[string]bool)

	text := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		value := vars[key]
		if !seen[key] {
			seen[key] = true
			out.Keys = append(out.Keys, key)
			if strings.TrimSpace(value) != "" {
				out.Entries = append(out.Entries, TemplateEntry{Key: key, Value: value})
			}
		}
		return value
	})

	out.Text = NormalizeText(text)
	return out
}

// NormalizeText replaces non-breaking spaces, strips trailing blanks from
// lines, collapses runs of blank lines to at most one and trims the result.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = trailingWSRe.ReplaceAllString(s, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
