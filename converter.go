package jobgrab

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as Article.ContentHTML,
	// into Markdown.
	Convert(html string) (string, error)
}
