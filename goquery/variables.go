package goquery

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// variables returns the template variables for the snapshot, building them
// on first use.
func (ev *evaluation) variables() map[string]string {
	if ev.vars != nil {
		return ev.vars
	}
	ev.vars = BuildVariables(ev.root, ev.snap, ev.now, ev.articles, ev.converter)
	return ev.vars
}

// BuildVariables computes the template variable map for a parsed snapshot:
// fixed page facts, every <meta> tag and every JSON-LD object. articles and
// converter are optional.
func BuildVariables(root *html.Node, snap *jobgrab.Snapshot, now time.Time, articles jobgrab.ArticleExtractor, converter jobgrab.Converter) map[string]string {
	doc := goquery.NewDocumentFromNode(root)
	vars := make(map[string]string)
	set := func(key, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, ok := vars[key]; !ok {
			vars[key] = value
		}
	}

	collectMeta(doc, set)
	collectSchema(doc, set)

	pageURL, _ := url.Parse(snap.URL)

	set("url", snap.URL)
	if pageURL != nil {
		set("domain", pageURL.Hostname())
	}
	set("title", doc.Find("title").First().Text())
	set("title", vars["meta:property:og:title"])
	set("description", first(vars, "meta:name:description", "meta:property:og:description", "meta:name:twitter:description"))
	set("author", first(vars, "meta:name:author", "meta:property:article:author", "meta:name:twitter:creator"))
	set("published", first(vars,
		"meta:property:article:published_time",
		"meta:name:date",
		"meta:itemprop:dateposted",
		"meta:itemprop:datepublished",
		"schema:JobPosting.datePosted",
		"schema:Article.datePublished",
	))
	lang, _ := doc.Find("html").First().Attr("lang")
	set("language", lang)
	set("language", vars["meta:http-equiv:content-language"])
	set("image", resolve(pageURL, first(vars, "meta:property:og:image", "meta:name:twitter:image")))
	set("favicon", favicon(doc, pageURL))
	set("selection", snap.SelectionText)
	set("selectionHtml", snap.SelectionHTML)
	set("now", now.Format(time.RFC3339))

	body := doc.Find("body").First()
	var text string
	if body.Length() > 0 {
		text = RenderText(body.Get(0))
	}
	set("text", text)
	vars["wordCount"] = strconv.Itoa(len(strings.Fields(text)))

	if articles != nil {
		applyArticle(set, snap, articles, converter, pageURL)
	}
	return vars
}

// applyArticle adds the article variables and fills metadata the page's own
// tags did not provide.
func applyArticle(set func(string, string), snap *jobgrab.Snapshot, articles jobgrab.ArticleExtractor, converter jobgrab.Converter, pageURL *url.URL) {
	article, err := articles.ExtractArticle(snap.HTML, snap.URL)
	if err != nil || article == nil {
		return
	}
	set("title", article.Title)
	set("description", article.Description)
	set("author", article.Author)
	if !article.Published.IsZero() {
		set("published", article.Published.Format("2006-01-02"))
	}
	set("language", article.Language)
	set("image", resolve(pageURL, article.Image))
	set("article", jobgrab.NormalizeText(article.Text))

	if converter != nil && article.ContentHTML != "" {
		if md, err := converter.Convert(article.ContentHTML); err == nil {
			set("article:markdown", md)
		}
	}
}

// collectMeta records every <meta> tag under meta:name:*, meta:property:*,
// meta:itemprop:* and meta:http-equiv:*.
func collectMeta(doc *goquery.Document, set func(string, string)) {
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		for _, attr := range []string{"name", "property", "itemprop", "http-equiv"} {
			if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
				set("meta:"+attr+":"+strings.ToLower(strings.TrimSpace(v)), content)
			}
		}
	})
}

// collectSchema flattens every JSON-LD object into schema:<Type>.<path> keys.
func collectSchema(doc *goquery.Document, set func(string, string)) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}
		for _, obj := range schemaObjects(data) {
			flattenSchema("schema:"+schemaType(obj), obj, set)
		}
	})
}

// schemaObjects lists the top-level objects of a JSON-LD document, expanding
// arrays and @graph.
func schemaObjects(data any) []map[string]any {
	var out []map[string]any
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			out = append(out, schemaObjects(item)...)
		}
	case map[string]any:
		if graph, ok := v["@graph"]; ok {
			out = append(out, schemaObjects(graph)...)
			if _, typed := v["@type"]; !typed {
				return out
			}
		}
		out = append(out, v)
	}
	return out
}

func schemaType(obj map[string]any) string {
	switch t := obj["@type"].(type) {
	case string:
		if t != "" {
			return t
		}
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok && s != "" {
				return s
			}
		}
	}
	return "Thing"
}

func flattenSchema(prefix string, obj map[string]any, set func(string, string)) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !strings.HasPrefix(k, "@") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		flattenValue(prefix+"."+k, obj[k], set)
	}
}

func flattenValue(key string, v any, set func(string, string)) {
	switch val := v.(type) {
	case map[string]any:
		flattenSchema(key, val, set)
	case []any:
		var scalars []string
		for i, item := range val {
			if m, ok := item.(map[string]any); ok {
				flattenSchema(key+"."+strconv.Itoa(i), m, set)
				continue
			}
			if s := scalarString(item); s != "" {
				scalars = append(scalars, s)
			}
		}
		if len(scalars) > 0 {
			set(key, strings.Join(scalars, ", "))
		}
	default:
		set(key, scalarString(val))
	}
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, "<") {
			if n, err := html.Parse(strings.NewReader(val)); err == nil {
				return RenderText(n)
			}
		}
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func first(vars map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := vars[k]; v != "" {
			return v
		}
	}
	return ""
}

// favicon returns the first declared icon, or /favicon.ico on the page origin.
func favicon(doc *goquery.Document, base *url.URL) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
		for _, r := range rel {
			if r == "icon" {
				href = s.AttrOr("href", "")
				return href == ""
			}
		}
		return true
	})
	if href == "" && base != nil && base.Host != "" {
		href = "/favicon.ico"
	}
	return resolve(base, href)
}

// resolve makes href absolute against base when possible.
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
