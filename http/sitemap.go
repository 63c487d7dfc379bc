// Package http provides plain-HTTP implementations: direct file downloads
// and sitemap discovery.
package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/bylawsiq/bylawsiq"
	"golang.org/x/sync/errgroup"
)

// Ensure SitemapService implements bylawsiq.SitemapService.
var _ bylawsiq.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from a municipal site's sitemaps. Child
// sitemaps of a sitemap index are fetched concurrently.
type SitemapService struct {
	client   *http.Client
	parallel int
}

// NewSitemapService creates a SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, parallel: 4}
}

// DiscoverURLs finds all URLs from the site's sitemaps, checking robots.txt
// for Sitemap directives and falling back to /sitemap.xml. Returns an empty
// slice (not nil) when the site publishes no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *bylawsiq.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, bylawsiq.Errorf(bylawsiq.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemapURLs, err := s.findSitemapURLs(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(sitemapURLs) == 0 {
		return []string{}, nil
	}

	walker := &sitemapWalker{service: s, seen: make(map[string]bool)}
	for _, u := range sitemapURLs {
		if err := walker.walk(ctx, u); err != nil {
			return nil, err
		}
	}

	var out []string
	seenURLs := make(map[string]bool)
	for _, u := range walker.urls {
		if seenURLs[u] || !filter.Match(u) {
			continue
		}
		seenURLs[u] = true
		out = append(out, u)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to
// /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, root *url.URL) ([]string, error) {
	robotsURL := root.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.sitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	exists, err := s.urlExists(ctx, sitemapURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL}, nil
	}
	return nil, nil
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) sitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps, scanner.Err()
}

// sitemapWalker accumulates URLs across a sitemap tree, visiting each
// sitemap once.
type sitemapWalker struct {
	service *SitemapService

	mu   sync.Mutex
	seen map[string]bool
	urls []string
}

// walk fetches one sitemap and recurses into index children concurrently.
func (w *sitemapWalker) walk(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	if w.seen[sitemapURL] {
		w.mu.Unlock()
		return nil
	}
	w.seen[sitemapURL] = true
	w.mu.Unlock()

	body, err := w.service.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return bylawsiq.Errorf(bylawsiq.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return bylawsiq.Errorf(bylawsiq.EINVALID, "empty sitemap at %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(w.service.parallel)
		for _, child := range locValues(root, "sitemap") {
			g.Go(func() error {
				return w.walk(gctx, child)
			})
		}
		return g.Wait()
	}

	urls := locValues(root, "url")
	w.mu.Lock()
	w.urls = append(w.urls, urls...)
	w.mu.Unlock()
	return nil
}

// locValues extracts the <loc> text of every child element with the tag.
func locValues(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// get fetches a URL and returns the response body.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, bylawsiq.Errorf(bylawsiq.ETRANSIENT, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
