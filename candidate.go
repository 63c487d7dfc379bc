package bylawsiq

import (
	"net/url"
	"sort"
	"strings"
)

// DetectionTier identifies which detector tier produced a candidate.
// Lower tiers use simpler, more reliable detection methods.
type DetectionTier int

// Detection tiers in precedence order.
const (
	TierTextScan      DetectionTier = 1 // keyword in a text node inside an anchor
	TierClickableScan DetectionTier = 2 // labeled button/input with a resolvable target
	TierAttribute     DetectionTier = 3 // keyword in alt/title/aria-label/value
	TierDeepTraversal DetectionTier = 4 // scripted DOM walk for computed targets
)

// Candidate represents an unverified document link discovered on a page.
// Candidates are immutable once created.
type Candidate struct {
	RawURL        string
	NormalizedURL string
	Text          string
	Tier          DetectionTier
	SourcePage    string
	Strategy      string // name of the search strategy that surfaced it, if any
}

// DocumentClass classifies a candidate's acquisition path.
type DocumentClass int

// Document classes in acquisition priority order.
const (
	ClassDirectFile DocumentClass = iota // directly downloadable file
	ClassPlatformHosted                  // hosted on the ecode360 platform
	ClassNestedPage                      // ordinary page requiring expansion
)

// String returns the class name used in artifact filenames and audit output.
func (c DocumentClass) String() string {
	switch c {
	case ClassDirectFile:
		return "pdf"
	case ClassPlatformHosted:
		return "ecode"
	default:
		return "page"
	}
}

// PlatformHost is the known specialized document hosting platform.
// Links to this host get a browser-driven acquisition path.
const PlatformHost = "ecode360.com"

// directFileMarkers are URL path fragments that indicate a directly
// downloadable document even without a .pdf extension. Municipal CMSes
// commonly serve bylaws through download handlers and upload directories.
var directFileMarkers = []string{
	".pdf",
	"/documentcenter/",
	"/wp-content/uploads/",
	"/download",
}

// Classify assigns a DocumentClass from URL shape and known host patterns.
// It is a pure function: direct file markers win, then the platform host,
// everything else is a nested page.
func Classify(c Candidate) DocumentClass {
	u := strings.ToLower(c.NormalizedURL)
	if u == "" {
		u = strings.ToLower(c.RawURL)
	}
	for _, marker := range directFileMarkers {
		if strings.Contains(u, marker) {
			return ClassDirectFile
		}
	}
	if IsPlatformURL(u) {
		return ClassPlatformHosted
	}
	return ClassNestedPage
}

// IsPlatformURL reports whether a URL points at the specialized hosting
// platform.
func IsPlatformURL(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), PlatformHost)
}

// OrderByClass returns a new slice with candidates ordered for acquisition:
// all direct files first, then platform-hosted, then nested pages. The sort
// is stable, so discovery order is preserved within each class.
func OrderByClass(batch []Candidate) []Candidate {
	ordered := make([]Candidate, len(batch))
	copy(ordered, batch)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Classify(ordered[i]) < Classify(ordered[j])
	})
	return ordered
}

// trackingParams are query parameters stripped during canonicalization.
// They vary per discovery path without changing the underlying document.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"ref":          true,
}

// CanonicalURL normalizes a URL into a canonical identity: lower-cased
// scheme and host, www prefix removed, fragment dropped, tracking query
// parameters stripped, and remaining parameters sorted. Two candidates with
// equal canonical URLs refer to the same underlying document.
func CanonicalURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", Errorf(EINVALID, "URL %q is not absolute", rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = NormalizeHost(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode() // Encode sorts keys

	// Trailing slash on a non-root path is not significant.
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// NormalizeHost lower-cases a host and strips www-style prefixes so that
// www.townofacton.gov and townofacton.gov compare equal.
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	for _, prefix := range []string{"www.", "www1.", "www2."} {
		if strings.HasPrefix(host, prefix) {
			return strings.TrimPrefix(host, prefix)
		}
	}
	return host
}

// SameDomain reports whether two URLs share a normalized host.
func SameDomain(url1, url2 string) bool {
	u1, err1 := url.Parse(url1)
	u2, err2 := url.Parse(url2)
	if err1 != nil || err2 != nil {
		return false
	}
	return NormalizeHost(u1.Host) == NormalizeHost(u2.Host)
}

// ResolveURL resolves a possibly-relative href against a base page URL.
// Returns an empty string for unusable hrefs (javascript:, mailto:, anchors).
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
