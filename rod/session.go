// Package rod implements browser-driven navigation and platform acquisition
// using Chrome automation.
package rod

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bylawsiq/bylawsiq"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultUserAgent is presented to target sites in place of the headless
// Chrome default, which many municipal CMSes reject outright.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// maskScript runs before any page script and hides the usual automation
// tells: the webdriver flag, the empty plugin list, and the missing
// languages array.
const maskScript = `
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	window.chrome = window.chrome || { runtime: {} };
`

// Ensure Factory implements bylawsiq.SessionFactory at compile time.
var _ bylawsiq.SessionFactory = (*Factory)(nil)

// Factory creates browser sessions backed by a shared, recycled Chrome
// instance. Each session gets its own incognito context so cookies and
// storage never leak between logical tasks.
type Factory struct {
	manager   *BrowserManager
	userAgent string
	minDelay  time.Duration
	maxDelay  time.Duration
	onVisit   bylawsiq.VisitFunc
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithUserAgent overrides the user agent presented to target sites.
func WithUserAgent(ua string) FactoryOption {
	return func(f *Factory) {
		f.userAgent = ua
	}
}

// WithDelayRange sets the randomized pause taken before each navigation.
// Defaults to 200-700ms.
func WithDelayRange(min, max time.Duration) FactoryOption {
	return func(f *Factory) {
		f.minDelay = min
		f.maxDelay = max
	}
}

// WithVisitFunc registers a callback invoked with every URL a session
// attempts to open, successful or not.
func WithVisitFunc(fn bylawsiq.VisitFunc) FactoryOption {
	return func(f *Factory) {
		f.onVisit = fn
	}
}

// NewFactory creates a session factory on top of the browser manager.
func NewFactory(manager *BrowserManager, opts ...FactoryOption) *Factory {
	f := &Factory{
		manager:   manager,
		userAgent: DefaultUserAgent,
		minDelay:  200 * time.Millisecond,
		maxDelay:  700 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewSession creates a fresh incognito browser context.
func (f *Factory) NewSession() (bylawsiq.Session, error) {
	browser, err := f.manager.Browser().Incognito()
	if err != nil {
		return nil, bylawsiq.Errorf(bylawsiq.EINTERNAL, "creating browser context: %v", err)
	}
	f.manager.IncrementSessionCount()

	session := &Session{
		browser:   browser,
		userAgent: f.userAgent,
		minDelay:  f.minDelay,
		maxDelay:  f.maxDelay,
	}
	if f.onVisit == nil {
		return session, nil
	}
	return NewVisitLogSession(session, f.onVisit), nil
}

// Ensure visitLogSession implements bylawsiq.Session at compile time.
var _ bylawsiq.Session = (*visitLogSession)(nil)

// visitLogSession reports every open attempt to the visit callback before
// navigation starts, so blocked and failed opens land in the audit trail
// alongside the successful ones.
type visitLogSession struct {
	next    bylawsiq.Session
	onVisit bylawsiq.VisitFunc
}

// NewVisitLogSession decorates a session so every URL it attempts to open
// is reported to fn, whether or not navigation succeeds.
func NewVisitLogSession(next bylawsiq.Session, fn bylawsiq.VisitFunc) bylawsiq.Session {
	return &visitLogSession{next: next, onVisit: fn}
}

func (s *visitLogSession) Open(ctx context.Context, url string) (bylawsiq.Page, error) {
	s.onVisit(url)
	return s.next.Open(ctx, url)
}

func (s *visitLogSession) Close() error {
	return s.next.Close()
}

// Ensure Session implements bylawsiq.Session at compile time.
var _ bylawsiq.Session = (*Session)(nil)

// Session is one incognito browser context. It is owned by a single logical
// task and is not safe for concurrent use.
type Session struct {
	browser   *rod.Browser
	userAgent string
	minDelay  time.Duration
	maxDelay  time.Duration
	closed    atomic.Bool
}

// Open navigates to the URL and returns the loaded page. Transient failures
// are retried once before the error is surfaced with a navigation code.
func (s *Session) Open(ctx context.Context, url string) (bylawsiq.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.humanDelay(ctx)

	page, err := s.open(ctx, url)
	if err != nil {
		if code := navigationCode(err); code != bylawsiq.ETRANSIENT {
			return nil, bylawsiq.Errorf(code, "opening %s: %v", url, err)
		}
		s.humanDelay(ctx)
		page, err = s.open(ctx, url)
		if err != nil {
			return nil, bylawsiq.Errorf(navigationCode(err), "opening %s: %v", url, err)
		}
	}

	return page, nil
}

func (s *Session) open(ctx context.Context, url string) (*Page, error) {
	rp, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	rp = rp.Context(ctx)

	if err := rp.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.userAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		_ = rp.Close()
		return nil, err
	}
	if err := rp.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = rp.Close()
		return nil, err
	}
	if _, err := rp.EvalOnNewDocument(maskScript); err != nil {
		_ = rp.Close()
		return nil, err
	}

	if err := rp.Navigate(url); err != nil {
		_ = rp.Close()
		return nil, err
	}
	if err := rp.WaitLoad(); err != nil {
		_ = rp.Close()
		return nil, err
	}

	return &Page{page: rp, openedURL: url}, nil
}

// humanDelay pauses for a randomized interval so navigation pacing does not
// look machine-generated. Returns early on context cancellation.
func (s *Session) humanDelay(ctx context.Context) {
	if s.maxDelay <= 0 {
		return
	}
	d := s.minDelay
	if s.maxDelay > s.minDelay {
		d += time.Duration(rand.Int63n(int64(s.maxDelay - s.minDelay)))
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// Close releases the browser context. Safe to call more than once.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.browser.Close()
}

// navigationCode maps a navigation failure onto an application error code.
func navigationCode(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "err_name_not_resolved"),
		strings.Contains(msg, "err_address_unreachable"):
		return bylawsiq.ENOTFOUND
	case strings.Contains(msg, "err_blocked"),
		strings.Contains(msg, "403"):
		return bylawsiq.EBLOCKED
	case strings.Contains(msg, "context deadline exceeded"),
		strings.Contains(msg, "timeout"):
		return bylawsiq.ETIMEOUT
	default:
		return bylawsiq.ETRANSIENT
	}
}

// Ensure Page implements bylawsiq.Page at compile time.
var _ bylawsiq.Page = (*Page)(nil)

// Page wraps one loaded browser tab.
type Page struct {
	page      *rod.Page
	openedURL string
}

// URL returns the page's current URL after any redirects.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return p.openedURL
	}
	return info.URL
}

// HTML returns the rendered HTML, including script-manipulated nodes.
func (p *Page) HTML() (string, error) {
	return p.page.HTML()
}

// Eval executes JavaScript in the page and returns its result as a string.
func (p *Page) Eval(ctx context.Context, js string) (string, error) {
	obj, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return obj.Value.Str(), nil
}

// PrintToPDF renders the current page as a Letter-format document with the
// given title in the page header and page numbers in the footer.
func (p *Page) PrintToPDF(ctx context.Context, headerTitle string) ([]byte, error) {
	r, err := p.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		PaperWidth:          f64(8.5),
		PaperHeight:         f64(11),
		MarginTop:           f64(0.4),
		MarginBottom:        f64(0.4),
		MarginLeft:          f64(0.4),
		MarginRight:         f64(0.4),
		HeaderTemplate: `<div style="font-size:9px; width:100%; text-align:center;">` +
			headerTitle + `</div>`,
		FooterTemplate: `<div style="font-size:8px; width:100%; text-align:center;">` +
			`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Close closes the underlying tab.
func (p *Page) Close() error {
	return p.page.Close()
}

func f64(v float64) *float64 {
	return &v
}
