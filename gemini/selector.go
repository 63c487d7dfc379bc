// Package gemini selects among document candidates using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bylawsiq/bylawsiq"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Selector implements bylawsiq.VersionSelector at compile time.
var _ bylawsiq.VersionSelector = (*Selector)(nil)

// Selector picks the most recent document among direct-file candidates by
// reading dates and edition markers out of their link titles.
type Selector struct {
	client *genai.Client
}

// NewSelector creates a new Selector.
func NewSelector(client *genai.Client) *Selector {
	return &Selector{client: client}
}

// SelectLatest returns the index of the most recent candidate. Returns
// EINVALID when the model cannot decide; callers fall back to
// first-registered order.
func (s *Selector) SelectLatest(ctx context.Context, candidates []bylawsiq.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, bylawsiq.Errorf(bylawsiq.EINVALID, "no candidates to select from")
	}
	if len(candidates) == 1 {
		return 0, nil
	}

	prompt := BuildSelectionPrompt(candidates)
	config := BuildConfig()

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, bylawsiq.Errorf(bylawsiq.EINTERNAL, "gemini returned nil result")
	}

	return ParseSelection(result.Text(), len(candidates))
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You compare document links for a municipality and pick the most recently adopted or amended edition. Use years, dates, and words like 'amended', 'current', or 'draft' in the link text and URL. Never pick a draft over an adopted edition. Reply with the number of your choice and nothing else.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildSelectionPrompt lists the candidates for the model to compare.
func BuildSelectionPrompt(candidates []bylawsiq.Candidate) string {
	var sb strings.Builder
	sb.WriteString("<candidates>\n")
	for i, c := range candidates {
		sb.WriteString("<candidate>\n")
		fmt.Fprintf(&sb, "<number>%d</number>\n", i+1)
		fmt.Fprintf(&sb, "<text>%s</text>\n", c.Text)
		fmt.Fprintf(&sb, "<url>%s</url>\n", c.NormalizedURL)
		sb.WriteString("</candidate>\n")
	}
	sb.WriteString("</candidates>\n\n")
	sb.WriteString("Which candidate is the most recent edition of the zoning bylaws? Reply with its number only.")
	return sb.String()
}

// ParseSelection parses the model's reply into a zero-based index.
func ParseSelection(reply string, count int) (int, error) {
	fields := strings.Fields(strings.TrimSpace(reply))
	if len(fields) == 0 {
		return 0, bylawsiq.Errorf(bylawsiq.EINVALID, "empty selection reply")
	}
	n, err := strconv.Atoi(strings.Trim(fields[0], ".)"))
	if err != nil || n < 1 || n > count {
		return 0, bylawsiq.Errorf(bylawsiq.EINVALID, "unparseable selection reply %q", reply)
	}
	return n - 1, nil
}
