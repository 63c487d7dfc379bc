// Package mock provides test doubles for bylawsiq interfaces.
package mock

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
)

var _ bylawsiq.Page = (*Page)(nil)

// Page is a mock implementation of bylawsiq.Page.
type Page struct {
	URLFn          func() string
	HTMLFn         func() (string, error)
	EvalFn         func(ctx context.Context, js string) (string, error)
	SubmitSearchFn func(ctx context.Context, phrase string) error
	PrintToPDFFn   func(ctx context.Context, headerTitle string) ([]byte, error)
}

func (p *Page) URL() string {
	if p.URLFn == nil {
		return ""
	}
	return p.URLFn()
}

func (p *Page) HTML() (string, error) {
	return p.HTMLFn()
}

func (p *Page) Eval(ctx context.Context, js string) (string, error) {
	if p.EvalFn == nil {
		return "", bylawsiq.Errorf(bylawsiq.EINTERNAL, "mock: EvalFn not set")
	}
	return p.EvalFn(ctx, js)
}

func (p *Page) SubmitSearch(ctx context.Context, phrase string) error {
	if p.SubmitSearchFn == nil {
		return bylawsiq.Errorf(bylawsiq.EINTERNAL, "mock: SubmitSearchFn not set")
	}
	return p.SubmitSearchFn(ctx, phrase)
}

func (p *Page) PrintToPDF(ctx context.Context, headerTitle string) ([]byte, error) {
	if p.PrintToPDFFn == nil {
		return nil, bylawsiq.Errorf(bylawsiq.EINTERNAL, "mock: PrintToPDFFn not set")
	}
	return p.PrintToPDFFn(ctx, headerTitle)
}

var _ bylawsiq.Session = (*Session)(nil)

// Session is a mock implementation of bylawsiq.Session.
type Session struct {
	OpenFn  func(ctx context.Context, url string) (bylawsiq.Page, error)
	CloseFn func() error

	CloseInvoked bool
}

func (s *Session) Open(ctx context.Context, url string) (bylawsiq.Page, error) {
	return s.OpenFn(ctx, url)
}

func (s *Session) Close() error {
	s.CloseInvoked = true
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

var _ bylawsiq.SessionFactory = (*SessionFactory)(nil)

// SessionFactory is a mock implementation of bylawsiq.SessionFactory.
type SessionFactory struct {
	NewSessionFn func() (bylawsiq.Session, error)
}

func (f *SessionFactory) NewSession() (bylawsiq.Session, error) {
	return f.NewSessionFn()
}
