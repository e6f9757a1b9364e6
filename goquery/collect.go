package goquery

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IgnoreSelector matches the extension's own overlay and menu containers.
// Nodes inside them are never collected.
const IgnoreSelector = "#jobgrab-overlay, #jobgrab-menu, .jobgrab-ui, [data-jobgrab-ui]"

var ignoreGroup = mustParseGroup(IgnoreSelector)

func mustParseGroup(sel string) cascadia.SelectorGroup {
	g, err := cascadia.ParseGroup(sel)
	if err != nil {
		panic(fmt.Sprintf("goquery: invalid selector %q: %v", sel, err))
	}
	return g
}

// IsShadowRoot reports whether n is a declaratively serialized shadow root.
func IsShadowRoot(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.DataAtom != atom.Template {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "shadowrootmode" || a.Key == "shadowroot" {
			return true
		}
	}
	return false
}

// sealShadowRoots moves the content of every shadow root in the tree under a
// detached document node that hangs below the template. Walking down still
// reaches the content, but selector matching and ancestor lookups that start
// inside a shadow root stop at its boundary, as they do in a browser.
func sealShadowRoots(root *html.Node) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
		if !IsShadowRoot(n) || n.FirstChild == nil || n.FirstChild.Type == html.DocumentNode {
			continue
		}

		frag := &html.Node{Type: html.DocumentNode}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			frag.AppendChild(c)
			c = next
		}
		n.FirstChild = frag
		n.LastChild = frag
	}
}

// parseSelectorList compiles a comma-separated selector list. Each top-level
// part is kept separately so matches can be collected part by part.
func parseSelectorList(selector string) (cascadia.SelectorGroup, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("empty selector")
	}
	g, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return g, nil
}

// collector gathers matching nodes de-duplicated by identity, in order of
// discovery.
type collector struct {
	seen  map[*html.Node]struct{}
	nodes []*html.Node
}

func newCollector() *collector {
	return &collector{seen: make(map[*html.Node]struct{})}
}

func (c *collector) add(n *html.Node) {
	if _, ok := c.seen[n]; ok {
		return
	}
	if isIgnored(n) {
		return
	}
	c.seen[n] = struct{}{}
	c.nodes = append(c.nodes, n)
}

// collectNodes matches every part of group against scope itself and its
// descendants, then against the content of every shadow root found below
// scope, repeating at each shadow boundary.
func collectNodes(scope *html.Node, group cascadia.SelectorGroup) []*html.Node {
	c := newCollector()
	for _, sel := range group {
		queue := []*html.Node{scope}
		visited := make(map[*html.Node]struct{})
		for len(queue) > 0 {
			root := queue[0]
			queue = queue[1:]
			if _, ok := visited[root]; ok {
				continue
			}
			visited[root] = struct{}{}
			queue = append(queue, matchTree(root, sel, c)...)
		}
	}
	return c.nodes
}

// matchTree matches sel against root and its light-DOM descendants using an
// explicit stack. Shadow roots are not entered; they are returned in document
// order for the caller to visit. Ignored containers are pruned whole, shadow
// roots included, since ancestor lookups stop at a shadow boundary.
func matchTree(root *html.Node, sel cascadia.Sel, c *collector) []*html.Node {
	var shadows []*html.Node

	if root.Type == html.ElementNode && ignoreGroup.Match(root) {
		return nil
	}
	if root.Type == html.ElementNode && !IsShadowRoot(root) && sel.Match(root) {
		c.add(root)
	}

	stack := pushChildren(nil, root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.DocumentNode {
			stack = pushChildren(stack, n)
			continue
		}
		if n.Type != html.ElementNode || ignoreGroup.Match(n) {
			continue
		}
		if n.DataAtom == atom.Template {
			if IsShadowRoot(n) {
				shadows = append(shadows, n)
			}
			continue
		}
		if sel.Match(n) {
			c.add(n)
		}
		stack = pushChildren(stack, n)
	}
	return shadows
}

// pushChildren pushes the children of n in reverse so they pop in document order.
func pushChildren(stack []*html.Node, n *html.Node) []*html.Node {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, c)
	}
	return stack
}

// isIgnored reports whether n or one of its ancestors is an ignored container.
func isIgnored(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && ignoreGroup.Match(p) {
			return true
		}
	}
	return false
}

// filterNodes applies a chain step's text and index filters.
func filterNodes(nodes []*html.Node, text string, nth *int) []*html.Node {
	if text != "" {
		needle := strings.ToLower(text)
		kept := nodes[:0:0]
		for _, n := range nodes {
			if strings.Contains(strings.ToLower(RenderText(n)), needle) {
				kept = append(kept, n)
			}
		}
		nodes = kept
	}
	if nth != nil {
		if *nth >= len(nodes) {
			return nil
		}
		return []*html.Node{nodes[*nth]}
	}
	return nodes
}
