package fetcher

import (
	"context"
	"net/url"
	"strings"

	"clemfr/grantwatch/logger"

	"github.com/PuerkitoBio/goquery"
)

// maxDiscoveredLinks bounds how many sub-pages one listing may contribute
const maxDiscoveredLinks = 5

// linkTerms mark anchors that point at an individual call for projects
var linkTerms = []string{
	"appel", "appels-a-projets", "concours", "aap",
	"grant", "funding", "call", "subvention",
}

// DiscoverGrantLinks scans a listing document for same-host anchors that look
// like individual grant announcements and returns up to limit absolute URLs.
func DiscoverGrantLinks(doc *goquery.Document, base string, limit int) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := baseURL.ResolveReference(ref)
		if abs.Host != baseURL.Host {
			return true
		}

		haystack := strings.ToLower(abs.Path + " " + s.Text())
		matched := false
		for _, term := range linkTerms {
			if strings.Contains(haystack, term) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		abs.Fragment = ""
		link := abs.String()
		if link == base || seen[link] {
			return true
		}
		seen[link] = true
		links = append(links, link)

		return len(links) < limit
	})

	return links
}

// fetchDiscovered fetches the grant sub-pages linked from a listing document.
// Failures on individual sub-pages are logged and skipped.
func (f *BaseFetcher) fetchDiscovered(ctx context.Context, doc *goquery.Document) []RawPage {
	log := logger.ForSource(f.Source.Name)

	var pages []RawPage
	for _, link := range DiscoverGrantLinks(doc, f.Source.URL, maxDiscoveredLinks) {
		if ctx.Err() != nil {
			break
		}

		page, _, err := f.fetchPage(link)
		if err != nil {
			log.Warn().Err(err).Str("url", link).Msg("Skipping discovered sub-page")
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) > 0 {
		log.Debug().Int("count", len(pages)).Msg("Fetched discovered sub-pages")
	}
	return pages
}
