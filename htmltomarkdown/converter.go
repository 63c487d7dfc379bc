// Package htmltomarkdown converts extracted bylaws content to Markdown for
// the artifact sidecar.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/bylawsiq/bylawsiq"
)

// Ensure Converter implements bylawsiq.Converter at compile time.
var _ bylawsiq.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown. The table plugin matters here: zoning
// dimensional requirements are almost always published as tables.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", bylawsiq.Errorf(bylawsiq.EINVALID, "empty HTML input")
	}

	return c.conv.ConvertString(html)
}
