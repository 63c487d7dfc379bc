package rod

import (
	"context"
	"strings"
	"time"

	"github.com/bylawsiq/bylawsiq"
	"golang.org/x/net/html"
)

// platformRoot is visited before the candidate so the session carries
// first-party cookies and a browsing history when it arrives.
const platformRoot = "https://www.ecode360.com"

// challengeMarkers identify the platform's interstitial bot challenge.
var challengeMarkers = []string{
	"verify you are human",
	"just a moment",
	"checking your browser",
	"captcha",
}

// validationKeywords must appear in acquired content for it to be treated
// as a zoning document with confidence.
var validationKeywords = []string{
	"zoning", "district", "bylaw", "ordinance", "use", "setback", "coverage",
}

const (
	// minContentChars is the minimum extracted-text length for a
	// confident acquisition.
	minContentChars = 10000

	// minKeywordHits is the minimum number of distinct validation
	// keywords for a confident acquisition.
	minKeywordHits = 2
)

// warmupScript scrolls half way down and back up, the way a person skims a
// landing page.
const warmupScript = `() => {
	window.scrollTo(0, document.body.scrollHeight / 2);
	setTimeout(() => window.scrollTo(0, 0), 300);
}`

// downloadLinkScript probes the platform's known download affordances in
// order and returns the first target URL, falling back to any link whose
// visible text mentions downloading.
const downloadLinkScript = `(() => {
	const selectors = [
		'a[role="button"][id="downloadButton"]',
		'#downloadButton',
		'.toolbarButton.downloadLink',
		'a.downloadLink',
		'a[href*="/output/"]',
		'a[href$=".pdf"]',
	];
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el && el.href) return el.href;
	}
	for (const a of document.querySelectorAll('a[href]')) {
		if ((a.textContent || '').toLowerCase().includes('download')) return a.href;
	}
	return '';
})()`

// Ensure Acquirer implements bylawsiq.PlatformAcquirer at compile time.
var _ bylawsiq.PlatformAcquirer = (*Acquirer)(nil)

// Acquirer acquires documents hosted on the ecode360 platform. Every
// candidate gets a fresh session; a challenge on first contact earns one
// retry with another fresh session before the candidate is abandoned.
type Acquirer struct {
	factory    bylawsiq.SessionFactory
	fetcher    bylawsiq.FileFetcher
	extractor  bylawsiq.Extractor
	retryDelay time.Duration
	warmup     bool
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithRetryDelay sets the pause before the post-challenge retry.
// Defaults to 2s.
func WithRetryDelay(d time.Duration) AcquirerOption {
	return func(a *Acquirer) {
		a.retryDelay = d
	}
}

// WithoutWarmup skips the platform-root warm-up visit.
func WithoutWarmup() AcquirerOption {
	return func(a *Acquirer) {
		a.warmup = false
	}
}

// NewAcquirer creates an Acquirer. The fetcher downloads the platform's
// pre-rendered PDF when a download link exists; the extractor supplies the
// text used for content validation.
func NewAcquirer(factory bylawsiq.SessionFactory, fetcher bylawsiq.FileFetcher, extractor bylawsiq.Extractor, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		factory:    factory,
		fetcher:    fetcher,
		extractor:  extractor,
		retryDelay: 2 * time.Second,
		warmup:     true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire produces the document for a platform-hosted candidate.
func (a *Acquirer) Acquire(ctx context.Context, candidate bylawsiq.Candidate, district string) (*bylawsiq.Acquisition, error) {
	acq, err := a.attempt(ctx, candidate, district)
	if bylawsiq.ErrorCode(err) != bylawsiq.ECAPTCHA {
		return acq, err
	}

	// One more chance with a fresh session; the challenge is often
	// session-scoped rather than IP-scoped.
	select {
	case <-time.After(a.retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return a.attempt(ctx, candidate, district)
}

// attempt runs one full acquisition pass in its own session. The session is
// closed on every exit path, including panics.
func (a *Acquirer) attempt(ctx context.Context, candidate bylawsiq.Candidate, district string) (*bylawsiq.Acquisition, error) {
	session, err := a.factory.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	if a.warmup {
		a.warmUp(ctx, session)
	}

	page, err := session.Open(ctx, candidate.RawURL)
	if err != nil {
		return nil, err
	}

	pageHTML, err := page.HTML()
	if err != nil {
		return nil, err
	}
	if isChallenge(pageHTML) {
		return nil, bylawsiq.Errorf(bylawsiq.ECAPTCHA, "platform challenge at %s", candidate.RawURL)
	}

	data, err := a.download(ctx, page, district)
	if err != nil {
		return nil, err
	}

	content := a.extract(pageHTML)
	return &bylawsiq.Acquisition{
		Data:        data,
		Flagged:     !validate(content),
		ContentHTML: content,
	}, nil
}

// warmUp browses the platform root like a first-time visitor. Failures are
// ignored; the warm-up is best effort.
func (a *Acquirer) warmUp(ctx context.Context, session bylawsiq.Session) {
	page, err := session.Open(ctx, platformRoot)
	if err != nil {
		return
	}
	_, _ = page.Eval(ctx, warmupScript)
	select {
	case <-time.After(700 * time.Millisecond):
	case <-ctx.Done():
	}
}

// download prefers the platform's own download link and falls back to
// rendering the page.
func (a *Acquirer) download(ctx context.Context, page bylawsiq.Page, district string) ([]byte, error) {
	href, err := page.Eval(ctx, downloadLinkScript)
	if err == nil && href != "" {
		data, _, ferr := a.fetcher.FetchFile(ctx, href)
		if ferr == nil && len(data) > 0 {
			return data, nil
		}
	}

	data, err := page.PrintToPDF(ctx, district+" Zoning Bylaws")
	if err != nil {
		return nil, bylawsiq.Errorf(bylawsiq.ENODOWNLOAD, "no download link and render failed for %s: %v", page.URL(), err)
	}
	if len(data) == 0 {
		return nil, bylawsiq.Errorf(bylawsiq.ENODOWNLOAD, "rendering %s produced no output", page.URL())
	}
	return data, nil
}

// extract pulls the main content out of the page HTML, falling back to the
// raw HTML when extraction is unavailable or fails.
func (a *Acquirer) extract(pageHTML string) string {
	if a.extractor == nil {
		return pageHTML
	}
	res, err := a.extractor.Extract(pageHTML)
	if err != nil || res.ContentHTML == "" {
		return pageHTML
	}
	return res.ContentHTML
}

// validate reports whether the page content reads like a full zoning
// document rather than a stub, an error page, or an unrelated chapter. The
// length check counts visible text, so markup bulk cannot satisfy it.
func validate(content string) bool {
	lower := strings.ToLower(visibleText(content))

	hits := 0
	for _, kw := range validationKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= minKeywordHits && len(lower) > minContentChars
}

// visibleText flattens markup down to its text nodes, skipping script and
// style bodies. Unparseable input is returned as is.
func visibleText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}

// isChallenge reports whether the HTML is the platform's bot interstitial.
func isChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
