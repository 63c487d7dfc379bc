// Package goquery provides HTML-based candidate detection and search-result
// matching for the discovery pipeline.
package goquery

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bylawsiq/bylawsiq"
)

// Ensure Detector implements bylawsiq.Detector at compile time.
var _ bylawsiq.Detector = (*Detector)(nil)

// Detector finds candidate document links on a page by running four
// detection tiers in fixed order. Later tiers only add candidates whose
// normalized URL was not already produced by an earlier tier, so simpler
// and more reliable detections take precedence over heuristics.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect produces candidates matching the vocabulary. It never fails:
// unparseable pages and script errors yield whatever the remaining tiers
// found, possibly nothing.
func (d *Detector) Detect(ctx context.Context, page bylawsiq.Page, vocab bylawsiq.Vocabulary) []bylawsiq.Candidate {
	html, err := page.HTML()
	if err != nil {
		return nil
	}
	base, err := url.Parse(page.URL())
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	acc := newAccumulator(base, page.URL())

	d.textScan(doc, vocab, acc)
	d.clickableScan(doc, vocab, acc)
	d.attributeScan(doc, vocab, acc)
	d.deepTraversal(ctx, page, vocab, acc)

	return acc.candidates
}

// accumulator collects candidates, deduplicating by normalized URL with
// earlier-tier precedence, and restricting targets to the page's domain or
// the hosting platform.
type accumulator struct {
	base       *url.URL
	sourcePage string
	seen       map[string]bool
	candidates []bylawsiq.Candidate
}

func newAccumulator(base *url.URL, sourcePage string) *accumulator {
	return &accumulator{
		base:       base,
		sourcePage: sourcePage,
		seen:       make(map[string]bool),
	}
}

func (a *accumulator) add(tier bylawsiq.DetectionTier, href, text string) {
	resolved := bylawsiq.ResolveURL(a.base, href)
	if resolved == "" {
		return
	}
	// Internal links only, with the platform host as the one allowed
	// external destination.
	if !bylawsiq.SameDomain(a.base.String(), resolved) && !bylawsiq.IsPlatformURL(resolved) {
		return
	}
	key, err := bylawsiq.CanonicalURL(resolved)
	if err != nil {
		return
	}
	if a.seen[key] {
		return
	}
	a.seen[key] = true
	a.candidates = append(a.candidates, bylawsiq.Candidate{
		RawURL:        resolved,
		NormalizedURL: key,
		Text:          strings.TrimSpace(text),
		Tier:          tier,
		SourcePage:    a.sourcePage,
	})
}

// textScan emits a candidate for every anchor whose visible text contains a
// vocabulary phrase.
func (d *Detector) textScan(doc *goquery.Document, vocab bylawsiq.Vocabulary, acc *accumulator) {
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if _, ok := vocab.Match(text); !ok {
			return
		}
		if href, exists := sel.Attr("href"); exists {
			acc.add(bylawsiq.TierTextScan, href, text)
		}
	})
}

// clickableSelectors cover interactive elements municipal CMSes use as
// download buttons: real buttons, inputs, and script-wired containers.
const clickableSelectors = "button, input[type=button], input[type=submit], [role=button], [onclick], [data-href], [data-url]"

// clickableScan emits candidates for interactive elements whose visible
// label matches the vocabulary, resolving the navigation target through the
// element's click handler, data attributes, or an enclosing anchor.
func (d *Detector) clickableScan(doc *goquery.Document, vocab bylawsiq.Vocabulary, acc *accumulator) {
	doc.Find(clickableSelectors).Each(func(_ int, sel *goquery.Selection) {
		label := sel.Text()
		if label == "" {
			label, _ = sel.Attr("value")
		}
		if _, ok := vocab.Match(label); !ok {
			return
		}
		if target := resolveClickTarget(sel); target != "" {
			acc.add(bylawsiq.TierClickableScan, target, label)
		}
	})
}

// descriptive attributes scanned by the attribute-match tier.
var descriptiveAttrs = []string{"alt", "title", "aria-label", "value"}

// attributeScan emits candidates for elements whose descriptive attributes
// match the vocabulary.
func (d *Detector) attributeScan(doc *goquery.Document, vocab bylawsiq.Vocabulary, acc *accumulator) {
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		var matched string
		for _, attr := range descriptiveAttrs {
			if v, exists := sel.Attr(attr); exists {
				if _, ok := vocab.Match(v); ok {
					matched = v
					break
				}
			}
		}
		if matched == "" {
			return
		}
		if target := resolveClickTarget(sel); target != "" {
			acc.add(bylawsiq.TierAttribute, target, matched)
		}
	})
}

// deepTraversalScript walks the full DOM, including script-manipulated
// nodes, looking for clickable ancestor chains that lead to a matching
// descendant. It resolves computed navigation targets that are not plain
// anchors and returns them as JSON.
const deepTraversalScript = `(() => {
	const phrases = %s;
	const out = [];
	const seen = new Set();
	const clickable = (el) => {
		if (!el || el === document.body) return null;
		if (el.tagName === 'A' && el.href) return el.href;
		if (el.onclick || el.getAttribute('onclick')) return el.getAttribute('onclick') || '';
		if (el.dataset && (el.dataset.href || el.dataset.url)) return el.dataset.href || el.dataset.url;
		return clickable(el.parentElement);
	};
	for (const el of document.querySelectorAll('*')) {
		if (el.children.length > 0) continue;
		const text = (el.textContent || '').toLowerCase();
		if (!phrases.some(p => text.includes(p))) continue;
		const target = clickable(el);
		if (!target) continue;
		if (seen.has(target)) continue;
		seen.add(target);
		out.push({ target: target, text: (el.textContent || '').trim().slice(0, 120) });
	}
	return JSON.stringify(out);
})()`

type traversalHit struct {
	Target string `json:"target"`
	Text   string `json:"text"`
}

// deepTraversal runs the in-page script and parses its results. Script
// failures are swallowed; this tier is a heuristic of last resort.
func (d *Detector) deepTraversal(ctx context.Context, page bylawsiq.Page, vocab bylawsiq.Vocabulary, acc *accumulator) {
	phrases := make([]string, len(vocab))
	for i, p := range vocab {
		phrases[i] = strings.ToLower(p)
	}
	phrasesJSON, err := json.Marshal(phrases)
	if err != nil {
		return
	}

	raw, err := page.Eval(ctx, strings.Replace(deepTraversalScript, "%s", string(phrasesJSON), 1))
	if err != nil {
		return
	}

	var hits []traversalHit
	if err := json.Unmarshal([]byte(raw), &hits); err != nil {
		return
	}
	for _, hit := range hits {
		target := hit.Target
		if !strings.HasPrefix(target, "http") && !strings.HasPrefix(target, "/") {
			// Probably an onclick handler body; try to extract a URL.
			target = extractOnclickURL(target)
		}
		if target == "" {
			continue
		}
		acc.add(bylawsiq.TierDeepTraversal, target, hit.Text)
	}
}

// onclickPatterns extract navigation targets from common click handler
// shapes.
var onclickPatterns = []*regexp.Regexp{
	regexp.MustCompile(`window\.location\s*=\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`location\.href\s*=\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`window\.open\s*\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`(?i)['"]([^'"]*(?:\.pdf|ecode360|bylaw)[^'"]*)['"]`),
}

// extractOnclickURL pulls a URL out of a click handler body, or returns "".
func extractOnclickURL(onclick string) string {
	for _, re := range onclickPatterns {
		if m := re.FindStringSubmatch(onclick); m != nil {
			return m[1]
		}
	}
	return ""
}

// resolveClickTarget resolves the navigation target of an element: its own
// href, then data attributes, then onclick patterns, then the enclosing
// anchor.
func resolveClickTarget(sel *goquery.Selection) string {
	if href, exists := sel.Attr("href"); exists && href != "" {
		return href
	}
	for _, attr := range []string{"data-href", "data-url"} {
		if v, exists := sel.Attr(attr); exists && v != "" {
			return v
		}
	}
	if onclick, exists := sel.Attr("onclick"); exists {
		if u := extractOnclickURL(onclick); u != "" {
			return u
		}
	}
	if anchor := sel.Closest("a[href]"); anchor.Length() > 0 {
		if href, exists := anchor.Attr("href"); exists {
			return href
		}
	}
	return ""
}
