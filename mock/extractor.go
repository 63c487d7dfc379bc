package mock

import "github.com/bylawsiq/bylawsiq"

var _ bylawsiq.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of bylawsiq.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*bylawsiq.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*bylawsiq.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ bylawsiq.Converter = (*Converter)(nil)

// Converter is a mock implementation of bylawsiq.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
