package rod

import (
	"context"
	"time"

	"github.com/bylawsiq/bylawsiq"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// searchInputSelectors locate a site's internal search box. Ordered from
// explicit search semantics down to naming conventions.
var searchInputSelectors = []string{
	`input[type="search"]`,
	`form[role="search"] input`,
	`input[name*="search" i]`,
	`input[id*="search" i]`,
	`input[placeholder*="search" i]`,
	`input[class*="search" i]`,
	`#search input`,
	`.search input`,
	`.search-box input`,
}

// overlayDismissScript hides the cookie banners and modal overlays that
// intercept clicks on municipal sites.
const overlayDismissScript = `() => {
	const selectors = ['.modal', '.overlay', '.popup', '[class*="cookie"]', '[id*="cookie"]', '[class*="consent"]'];
	for (const sel of selectors) {
		for (const el of document.querySelectorAll(sel)) {
			el.style.display = 'none';
		}
	}
}`

// jsSubmitScript sets the input value directly and fires the events
// framework-bound search boxes listen for, then submits the enclosing form.
const jsSubmitScript = `(sel, phrase) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	el.value = phrase;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	if (el.form) {
		el.form.submit();
	} else {
		el.dispatchEvent(new KeyboardEvent('keydown', { key: 'Enter', bubbles: true }));
	}
	return true;
}`

// SubmitSearch locates the site search box, enters the phrase, and submits
// it. Interaction strategies are layered: a plain type-and-enter first, then
// click-then-type for inputs that need focus, then overlay dismissal, then
// scrolling the input into view, and finally a scripted value set for
// framework-bound inputs that ignore synthetic keystrokes. The first
// strategy that completes wins. Returns ENOSEARCH if no search input exists.
func (p *Page) SubmitSearch(ctx context.Context, phrase string) error {
	sel, el := p.findSearchInput(ctx)
	if el == nil {
		return bylawsiq.Errorf(bylawsiq.ENOSEARCH, "no search input found on %s", p.URL())
	}

	strategies := []func(context.Context, *rod.Element, string) error{
		p.typeAndSubmit,
		p.clickThenType,
		p.dismissOverlaysThenType,
		p.scrollThenType,
	}

	var lastErr error
	for _, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = strategy(ctx, el, phrase); lastErr == nil {
			return p.settle(ctx)
		}
	}

	// Scripted fallback bypasses the element handle entirely.
	if _, err := p.page.Context(ctx).Eval(jsSubmitScript, sel, phrase); err != nil {
		return bylawsiq.Errorf(bylawsiq.ENOSEARCH, "search input on %s rejected all interaction strategies: %v", p.URL(), lastErr)
	}
	return p.settle(ctx)
}

// findSearchInput returns the first visible search input and the selector
// that matched it.
func (p *Page) findSearchInput(ctx context.Context) (string, *rod.Element) {
	for _, sel := range searchInputSelectors {
		el, err := p.page.Context(ctx).Sleeper(rod.NotFoundSleeper).Element(sel)
		if err != nil {
			continue
		}
		if visible, _ := el.Visible(); !visible {
			continue
		}
		return sel, el
	}
	return "", nil
}

func (p *Page) typeAndSubmit(ctx context.Context, el *rod.Element, phrase string) error {
	el = el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	if err := el.Input(phrase); err != nil {
		return err
	}
	return el.Type(input.Enter)
}

func (p *Page) clickThenType(ctx context.Context, el *rod.Element, phrase string) error {
	el = el.Context(ctx)
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	return p.typeAndSubmit(ctx, el, phrase)
}

func (p *Page) dismissOverlaysThenType(ctx context.Context, el *rod.Element, phrase string) error {
	if _, err := p.page.Context(ctx).Eval(overlayDismissScript); err != nil {
		return err
	}
	return p.typeAndSubmit(ctx, el, phrase)
}

func (p *Page) scrollThenType(ctx context.Context, el *rod.Element, phrase string) error {
	el = el.Context(ctx)
	if err := el.ScrollIntoView(); err != nil {
		return err
	}
	return p.typeAndSubmit(ctx, el, phrase)
}

// settle waits for the result page to load after a search submission.
func (p *Page) settle(ctx context.Context) error {
	if err := p.page.Context(ctx).WaitLoad(); err != nil {
		return err
	}
	select {
	case <-time.After(500 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
