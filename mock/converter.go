package mock

import "github.com/AndreyKolygin/jobgrab"

var _ jobgrab.Converter = (*Converter)(nil)

// Converter is a mock implementation of jobgrab.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
