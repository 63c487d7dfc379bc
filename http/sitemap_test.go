package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bylawsiq/bylawsiq"
	bylawshttp "github.com/bylawsiq/bylawsiq/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_discovers_from_robots_txt(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "User-agent: *\nSitemap: %s/custom-sitemap.xml\n", srv.URL)
	})
	mux.HandleFunc("/custom-sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
			<urlset>
				<url><loc>%[1]s/zoning-bylaw</loc></url>
				<url><loc>%[1]s/trash-pickup</loc></url>
			</urlset>`, srv.URL)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	s := bylawshttp.NewSitemapService(srv.Client())
	urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/zoning-bylaw", srv.URL + "/trash-pickup"}, urls)
}

func TestSitemapService_falls_back_to_sitemap_xml(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset><url><loc>%s/zoning</loc></url></urlset>`, srv.URL)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	s := bylawshttp.NewSitemapService(srv.Client())
	urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/zoning"}, urls)
}

func TestSitemapService_resolves_sitemap_index_recursively(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<sitemapindex>
			<sitemap><loc>%[1]s/sitemap-a.xml</loc></sitemap>
			<sitemap><loc>%[1]s/sitemap-b.xml</loc></sitemap>
		</sitemapindex>`, srv.URL)
	})
	mux.HandleFunc("/sitemap-a.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset><url><loc>%s/a</loc></url></urlset>`, srv.URL)
	})
	mux.HandleFunc("/sitemap-b.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset><url><loc>%s/b</loc></url></urlset>`, srv.URL)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	s := bylawshttp.NewSitemapService(srv.Client())
	urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{srv.URL + "/a", srv.URL + "/b"}, urls)
}

func TestSitemapService_applies_filter(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset>
			<url><loc>%[1]s/files/zoning-bylaw.pdf</loc></url>
			<url><loc>%[1]s/trash-pickup</loc></url>
		</urlset>`, srv.URL)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	s := bylawshttp.NewSitemapService(srv.Client())
	urls, err := s.DiscoverURLs(context.Background(), srv.URL, bylawsiq.BylawsURLFilter())

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/files/zoning-bylaw.pdf"}, urls)
}

func TestSitemapService_no_sitemap_returns_empty_slice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := bylawshttp.NewSitemapService(srv.Client())
	urls, err := s.DiscoverURLs(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.NotNil(t, urls)
	assert.Empty(t, urls)
}
