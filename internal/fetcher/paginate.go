package fetcher

import (
	"context"
	"net/url"
	"strconv"

	"clemfr/grantwatch/logger"
)

// PaginatedListing iterates numbered listing pages until an empty page or the
// page limit is reached
type PaginatedListing struct {
	BaseFetcher
	MaxPages int
}

// FetchPages fetches listing pages 1..MaxPages, stopping early on an empty or
// repeated page. A failure on the first page fails the source; failures on
// later pages end the iteration with the pages collected so far.
func (f *PaginatedListing) FetchPages(ctx context.Context) ([]RawPage, error) {
	log := logger.ForSource(f.Source.Name)

	var pages []RawPage
	prevText := ""
	for n := 1; n <= f.MaxPages; n++ {
		if ctx.Err() != nil {
			break
		}

		pageURL := buildPageURL(f.Source.URL, n)
		page, doc, err := f.fetchPage(pageURL)
		if err != nil {
			if n == 1 {
				return nil, err
			}
			log.Warn().Err(err).Int("page", n).Msg("Stopping pagination early")
			break
		}

		// An empty or unchanged page means the listing ran out
		if page.Text == "" || page.Text == prevText {
			break
		}
		prevText = page.Text
		pages = append(pages, page)

		if n == 1 && f.Source.Discover {
			pages = append(pages, f.fetchDiscovered(ctx, doc)...)
		}
	}

	return pages, nil
}

// buildPageURL appends or replaces the numbered page query parameter
func buildPageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
