package bylawsiq

import (
	"context"
	"strings"
)

// Vocabulary is a fixed set of phrase synonyms matched case-insensitively
// as substrings against page text and element attributes.
type Vocabulary []string

// DefaultVocabulary returns the phrase synonyms for zoning bylaws documents.
// The hyphenated and singular variants matter: municipal sites label the
// same document "Zoning By-Law", "Zoning Bylaws", or "Zoning Regulation"
// depending on the town.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"zoning code",
		"zoning bylaw",
		"zoning by-law",
		"zoning bylaws",
		"zoning ordinance",
		"unified development ordinance",
		"form-based code",
		"zoning regulation",
		"zoning regulations",
		"zoning act",
		"zoning law",
	}
}

// Match returns the first vocabulary phrase contained in the text, or
// ("", false) when nothing matches.
func (v Vocabulary) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range v {
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase, true
		}
	}
	return "", false
}

// Detector produces ranked candidate links from a loaded page. Detect never
// fails: pages with no matches yield an empty slice.
type Detector interface {
	Detect(ctx context.Context, page Page, vocab Vocabulary) []Candidate
}

// MatchPolicy controls how search-result links are matched against a
// strategy's phrase.
type MatchPolicy int

// Match policies.
const (
	// ExactThenPartial selects the first exact phrase match, falling back
	// to the first result whose text contains the phrase.
	ExactThenPartial MatchPolicy = iota

	// ExactOnly accepts exact matches only; no match yields zero candidates.
	ExactOnly
)

// SearchStrategy names one pass against a site's internal search facility.
type SearchStrategy struct {
	// Name identifies the strategy in outcomes and candidate tags.
	Name string

	// Phrase is submitted to the site search (e.g. "Zoning Board of
	// Appeals").
	Phrase string

	Policy MatchPolicy

	// Vocabulary is handed to the detector once a target page is reached.
	Vocabulary Vocabulary
}

// DefaultStrategies returns the ordered strategy list for bylaws discovery:
// the Appeals board page accepts partial matches, the Planning board page
// only an exact one.
func DefaultStrategies() []SearchStrategy {
	vocab := DefaultVocabulary()
	return []SearchStrategy{
		{Name: "appeals-board", Phrase: "Zoning Board of Appeals", Policy: ExactThenPartial, Vocabulary: vocab},
		{Name: "planning-board", Phrase: "Planning Board", Policy: ExactOnly, Vocabulary: vocab},
	}
}

// StrategyOutcome reports how one strategy attempt ended.
type StrategyOutcome struct {
	Strategy string

	// Err is nil on success; ENOSEARCH when no search interface was found,
	// ENOTFOUND when no result link matched the policy.
	Err error

	Candidates int
}
