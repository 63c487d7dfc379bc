package bylawsiq

import "context"

// Page represents a loaded page within a navigation session.
// Implementations hide the browser automation engine.
type Page interface {
	// URL returns the page's current URL (after redirects).
	URL() string

	// HTML returns the rendered HTML, including script-manipulated nodes.
	HTML() (string, error)

	// Eval executes JavaScript in the page and returns the result
	// serialized as a string.
	Eval(ctx context.Context, js string) (string, error)

	// SubmitSearch locates the site's internal search affordance, enters
	// the phrase, and submits it. Implementations attempt a layered
	// sequence of interaction strategies and stop at the first success.
	// Returns ENOSEARCH if no usable search interface exists.
	SubmitSearch(ctx context.Context, phrase string) error

	// PrintToPDF renders the current page into a fixed-format document.
	// The header title appears on each rendered page.
	PrintToPDF(ctx context.Context, headerTitle string) ([]byte, error)
}

// Session owns one browser-automation context (cookies, headers, viewport)
// against a target site. A session is exclusively owned by the logical task
// that opened it and must be closed on every exit path.
type Session interface {
	// Open navigates to the URL and returns the loaded page. Transient
	// network failures are retried once; persistent failures return a
	// NavigationError code (ETRANSIENT, EBLOCKED, ENOTFOUND).
	Open(ctx context.Context, url string) (Page, error)

	// Close releases the browser context. Safe to call more than once.
	Close() error
}

// SessionFactory creates sessions. Each logical task (a strategy attempt, a
// crawl expansion, a platform acquisition) opens its own session.
type SessionFactory interface {
	NewSession() (Session, error)
}

// VisitFunc is called with every URL a session opens, feeding the run's
// visited-URL audit trail.
type VisitFunc func(url string)
