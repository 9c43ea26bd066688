package fetcher

import (
	"context"
)

// SinglePage fetches one listing page per run
type SinglePage struct {
	BaseFetcher
}

// FetchPages fetches the source URL and, when discovery is enabled, the
// grant sub-pages linked from it.
func (f *SinglePage) FetchPages(ctx context.Context) ([]RawPage, error) {
	page, doc, err := f.fetchPage(f.Source.URL)
	if err != nil {
		return nil, err
	}

	pages := []RawPage{page}
	if f.Source.Discover {
		pages = append(pages, f.fetchDiscovered(ctx, doc)...)
	}
	return pages, nil
}
