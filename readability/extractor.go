// Package readability extracts main content using the readability
// algorithm. It serves as the fallback when trafilatura yields nothing
// useful on a heavily templated municipal page.
package readability

import (
	"strings"

	"github.com/bylawsiq/bylawsiq"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements bylawsiq.Extractor at compile time.
var _ bylawsiq.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*bylawsiq.ExtractResult, error) {
	if rawHTML == "" {
		return nil, bylawsiq.Errorf(bylawsiq.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &bylawsiq.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}

// Chain tries a primary extractor and falls back to a secondary one when
// the primary fails or extracts nothing.
type Chain struct {
	primary  bylawsiq.Extractor
	fallback bylawsiq.Extractor
}

// Ensure Chain implements bylawsiq.Extractor at compile time.
var _ bylawsiq.Extractor = (*Chain)(nil)

// NewChain creates an extractor chain.
func NewChain(primary, fallback bylawsiq.Extractor) *Chain {
	return &Chain{primary: primary, fallback: fallback}
}

// Extract runs the primary extractor, falling back when it fails or
// returns empty content.
func (c *Chain) Extract(rawHTML string) (*bylawsiq.ExtractResult, error) {
	res, err := c.primary.Extract(rawHTML)
	if err == nil && res.ContentHTML != "" {
		return res, nil
	}
	return c.fallback.Extract(rawHTML)
}
