package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bylawsiq/bylawsiq"
)

// ResultLink is a search-result link selected for follow-up.
type ResultLink struct {
	URL  string
	Text string
	// Exact reports whether the link text matched the phrase exactly
	// rather than by containment.
	Exact bool
}

// MatchResultLinks selects links from a search-results page whose anchor
// text matches the strategy phrase, ordered for follow-up. Under
// ExactOnly, only links whose trimmed text equals the phrase
// (case-insensitive) are returned. Under ExactThenPartial, exact matches
// come first; if there are none, links merely containing the phrase are
// returned instead. Only same-domain links qualify.
func MatchResultLinks(html, pageURL, phrase string, policy bylawsiq.MatchPolicy) []ResultLink {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	want := strings.ToLower(strings.TrimSpace(phrase))
	var exact, partial []ResultLink
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		lower := strings.ToLower(text)
		if !strings.Contains(lower, want) {
			return
		}
		href, _ := sel.Attr("href")
		resolved := bylawsiq.ResolveURL(base, href)
		if resolved == "" || !bylawsiq.SameDomain(pageURL, resolved) {
			return
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true
		link := ResultLink{URL: resolved, Text: text, Exact: lower == want}
		if link.Exact {
			exact = append(exact, link)
		} else {
			partial = append(partial, link)
		}
	})

	if policy == bylawsiq.ExactOnly {
		return exact
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}
