package htmltomarkdown

import (
	"strings"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Ensure Converter implements jobgrab.Converter at compile time.
var _ jobgrab.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to render posting content as Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and images against domain
// (for example "https://jobs.example.com").
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = domain
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	c := &Converter{conv: conv}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", jobgrab.Errorf(jobgrab.EINVALID, "empty HTML input")
	}

	var opts []converter.ConvertOptionFunc
	if c.domain != "" {
		opts = append(opts, converter.WithDomain(c.domain))
	}

	result, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
