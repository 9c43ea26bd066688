package fetcher

import (
	"context"
	"net/http"
	"time"

	"clemfr/grantwatch/config"
	"clemfr/grantwatch/helpers"
	"clemfr/grantwatch/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// RawPage holds the cleaned text of one fetched page
type RawPage struct {
	Source    config.SourceConfig
	URL       string
	Text      string
	FetchedAt time.Time
}

// Strategy is the contract for per-source fetch implementations
type Strategy interface {
	// FetchPages retrieves the raw pages for the source
	FetchPages(ctx context.Context) ([]RawPage, error)

	// GetName returns the source name for logging and identification
	GetName() string
}

// BaseFetcher provides common functionality for all strategies
type BaseFetcher struct {
	Source config.SourceConfig
	Client *http.Client
}

// GetName returns the source name
func (f *BaseFetcher) GetName() string {
	return f.Source.Name
}

// fetchDocument fetches a URL and parses it into a goquery document
func (f *BaseFetcher) fetchDocument(url string) (*goquery.Document, error) {
	body, err := helpers.FetchWithRandomHeaders(f.Client, url)
	if err != nil {
		return nil, errors.NewFetch(f.Source.Name, "failed to fetch "+url, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewFetch(f.Source.Name, "failed to parse HTML from "+url, err)
	}
	return doc, nil
}

// fetchPage fetches a URL and returns it as a cleaned RawPage
func (f *BaseFetcher) fetchPage(url string) (RawPage, *goquery.Document, error) {
	doc, err := f.fetchDocument(url)
	if err != nil {
		return RawPage{}, nil, err
	}

	return RawPage{
		Source:    f.Source,
		URL:       url,
		Text:      TextFromDocument(doc),
		FetchedAt: time.Now(),
	}, doc, nil
}

// NewStrategy selects the fetch strategy for a source based on its
// capability tags.
func NewStrategy(source config.SourceConfig, client *http.Client, maxPages int) Strategy {
	base := BaseFetcher{Source: source, Client: client}
	if source.Paginate {
		limit := source.MaxPages
		if limit <= 0 {
			limit = maxPages
		}
		return &PaginatedListing{BaseFetcher: base, MaxPages: limit}
	}
	return &SinglePage{BaseFetcher: base}
}

// CreateStrategies creates one strategy per configured source, in
// source-list order.
func CreateStrategies(cfg *config.Config) []Strategy {
	client := helpers.NewHTTPClient(cfg.FetchTimeout)

	var strategies []Strategy
	for _, source := range cfg.Sources {
		strategies = append(strategies, NewStrategy(source, client, cfg.MaxPagesPerSource))
	}
	return strategies
}
