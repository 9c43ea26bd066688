package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clemfr/grantwatch/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func docFromString(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	assert.NoError(t, err)
	return doc
}

func TestDiscoverGrantLinks(t *testing.T) {
	html := `
	<html><body>
		<a href="/appels-a-projets/esante-2024">AAP e-santé 2024</a>
		<a href="/concours/innovation">Concours innovation</a>
		<a href="/about-us">About us</a>
		<a href="https://other-host.test/appel">External appel</a>
		<a href="/appels-a-projets/esante-2024">Duplicate</a>
		<a href="#section">Anchor</a>
		<a href="mailto:contact@x.test">Mail</a>
	</body></html>`

	links := DiscoverGrantLinks(docFromString(t, html), "https://grants.test/calls", 5)
	assert.Equal(t, []string{
		"https://grants.test/appels-a-projets/esante-2024",
		"https://grants.test/concours/innovation",
	}, links)
}

func TestDiscoverGrantLinksLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<a href="/grant/%d">Grant %d</a>`, i, i)
	}
	b.WriteString("</body></html>")

	links := DiscoverGrantLinks(docFromString(t, b.String()), "https://grants.test/", 3)
	assert.Len(t, links, 3)
}

func TestSinglePageWithDiscovery(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body>
			<p>Listing of open calls</p>
			<a href="/appel/alpha">Appel alpha</a>
			<a href="/appel/broken">Appel broken</a>
		</body></html>`)
	})
	mux.HandleFunc("/appel/alpha", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><p>Alpha grant details, deadline 2024-09-01</p></body></html>")
	})
	mux.HandleFunc("/appel/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	source := config.SourceConfig{Name: "Discover", URL: server.URL + "/", Discover: true}
	pages, err := NewStrategy(source, testClient(), 3).FetchPages(context.Background())
	assert.NoError(t, err)

	// Listing page plus the one sub-page that resolved; the broken one is skipped
	assert.Len(t, pages, 2)
	assert.Contains(t, pages[0].Text, "Listing of open calls")
	assert.Contains(t, pages[1].Text, "Alpha grant details")
}
