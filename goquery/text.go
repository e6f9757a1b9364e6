package goquery

import (
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements never contribute rendered text.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Title:    true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Svg:      true,
	atom.Canvas:   true,
	atom.Select:   true,
}

// paragraphs are surrounded by a blank line, like innerText does for <p>.
var paragraphs = map[atom.Atom]bool{
	atom.P:          true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
}

// blocks start and end on their own line.
var blocks = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Dd: true,
	atom.Details: true, atom.Dialog: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true,
	atom.Footer: true, atom.Form: true, atom.Header: true, atom.Hr: true,
	atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.Pre: true, atom.Section: true, atom.Summary: true, atom.Table: true,
	atom.Tbody: true, atom.Thead: true, atom.Tfoot: true, atom.Tr: true,
	atom.Ul: true, atom.Caption: true, atom.Body: true, atom.Html: true,
}

// RenderText approximates the rendered text (innerText) of n. Hidden and
// non-rendered elements are skipped, whitespace is collapsed outside <pre>,
// and open shadow roots contribute their content.
func RenderText(n *html.Node) string {
	r := &textRenderer{}
	r.walk(n)
	lines := strings.Split(r.b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, " ")
	}
	return jobgrab.NormalizeText(strings.Join(lines, "\n"))
}

// textRenderer writes rendered text into b. Line breaks required by block
// boundaries are held in pending and collapse with each other, so nested
// blocks do not pile up blank lines.
type textRenderer struct {
	b       strings.Builder
	pre     int
	pending int
}

func (r *textRenderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.text(n.Data)
		return
	case html.DocumentNode:
		r.children(n)
		return
	case html.ElementNode:
	default:
		return
	}

	if skipped[n.DataAtom] || isHidden(n) {
		return
	}
	if n.DataAtom == atom.Template && !IsShadowRoot(n) {
		return
	}

	switch {
	case n.DataAtom == atom.Br:
		r.write("\n")
	case paragraphs[n.DataAtom]:
		r.breakLines(2)
		r.children(n)
		r.breakLines(2)
	case blocks[n.DataAtom]:
		if n.DataAtom == atom.Pre {
			r.pre++
			defer func() { r.pre-- }()
		}
		r.breakLines(1)
		r.children(n)
		r.breakLines(1)
	case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
		r.children(n)
		r.write("\t")
	default:
		r.children(n)
	}
}

func (r *textRenderer) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}
}

func (r *textRenderer) breakLines(n int) {
	if n > r.pending {
		r.pending = n
	}
}

// write emits s after any pending line breaks. Breaks before the first
// output are dropped.
func (r *textRenderer) write(s string) {
	if r.pending > 0 && r.b.Len() > 0 {
		r.b.WriteString(strings.Repeat("\n", r.pending))
	}
	r.pending = 0
	r.b.WriteString(s)
}

func (r *textRenderer) text(s string) {
	if r.pre > 0 {
		r.write(s)
		return
	}
	if strings.TrimSpace(s) == "" {
		if s != "" && r.pending == 0 && r.b.Len() > 0 {
			r.b.WriteString(" ")
		}
		return
	}
	var b strings.Builder
	if isSpace(s[0]) {
		b.WriteString(" ")
	}
	b.WriteString(strings.Join(strings.Fields(s), " "))
	if isSpace(s[len(s)-1]) {
		b.WriteString(" ")
	}
	r.write(b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// isHidden reports elements that are never rendered.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// joinTexts renders each node and joins the non-empty texts with a blank line.
func joinTexts(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := RenderText(n); t != "" {
			parts = append(parts, t)
		}
	}
	return jobgrab.NormalizeText(strings.Join(parts, "\n\n"))
}
