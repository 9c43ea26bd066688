package worker

import (
	"context"
	"sync"
	"time"

	"clemfr/grantwatch/config"
	"clemfr/grantwatch/internal/digest"
	"clemfr/grantwatch/internal/fetcher"
	"clemfr/grantwatch/internal/grant"
	"clemfr/grantwatch/logger"
	"clemfr/grantwatch/services/notifier"
)

// Extractor turns one raw page into grant records
type Extractor interface {
	ExtractRecords(ctx context.Context, page fetcher.RawPage) []grant.Record
}

// Worker runs the fetch → extract → filter → dedupe → sort → format → notify
// pipeline once per invocation
type Worker struct {
	strategies  []fetcher.Strategy
	extractor   Extractor
	notifier    notifier.Notifier
	formatter   *digest.Formatter
	keywords    []string
	concurrency int
	runTimeout  time.Duration
	reportDir   string
}

// NewWorker creates a new worker
func NewWorker(
	strategies []fetcher.Strategy,
	ext Extractor,
	not notifier.Notifier,
	formatter *digest.Formatter,
	cfg *config.Config,
) *Worker {
	concurrency := cfg.FetchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		strategies:  strategies,
		extractor:   ext,
		notifier:    not,
		formatter:   formatter,
		keywords:    cfg.Keywords,
		concurrency: concurrency,
		runTimeout:  cfg.RunTimeout,
		reportDir:   cfg.ReportDir,
	}
}

// Run executes one full pipeline run. Per-source failures are logged and
// isolated; only notification failure makes the run fail.
func (w *Worker) Run(ctx context.Context) (*RunReport, error) {
	log := logger.ForWorker()
	start := time.Now()

	if w.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.runTimeout)
		defer cancel()
	}

	log.Info().Int("sources", len(w.strategies)).Msg("Starting grants run")

	merged, processed, failed := w.fetchAndExtract(ctx)

	log.Info().
		Int("sources_processed", processed).
		Int("sources_failed", failed).
		Int("candidates", len(merged)).
		Msg("Extraction finished")

	records := digest.Build(merged, w.keywords)

	report := &RunReport{
		Timestamp:        start,
		TotalSources:     len(w.strategies),
		SourcesProcessed: processed,
		SourcesFailed:    failed,
		GrantsFound:      len(records),
	}

	if len(records) == 0 {
		log.Info().Msg("No grants to send")
	} else {
		for _, message := range w.formatter.Format(records) {
			if err := w.notifier.Notify(message); err != nil {
				report.Duration = time.Since(start)
				w.writeReport(report)
				return report, err
			}
		}
		report.Notified = true
		log.Info().Int("grants", len(records)).Msg("Digest delivered")
	}

	report.Duration = time.Since(start)
	w.writeReport(report)

	return report, nil
}

// fetchAndExtract runs fetch+extract for every source, optionally with a
// bounded worker pool. Results are merged in source-list order so the digest
// is reproducible regardless of completion order.
func (w *Worker) fetchAndExtract(ctx context.Context) ([]grant.Record, int, int) {
	perSource := make([][]grant.Record, len(w.strategies))
	failures := make([]bool, len(w.strategies))

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for i, strategy := range w.strategies {
		wg.Add(1)
		go func(i int, strategy fetcher.Strategy) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				failures[i] = true
				logger.ForSource(strategy.GetName()).Warn().Msg("Run deadline reached, skipping source")
				return
			}

			records, err := w.processSource(ctx, strategy)
			if err != nil {
				failures[i] = true
				return
			}
			perSource[i] = records
		}(i, strategy)
	}
	wg.Wait()

	var merged []grant.Record
	processed, failed := 0, 0
	for i := range w.strategies {
		if failures[i] {
			failed++
			continue
		}
		processed++
		merged = append(merged, perSource[i]...)
	}
	return merged, processed, failed
}

// processSource fetches all pages for one source and extracts records from
// each. A fetch error yields zero records for the source.
func (w *Worker) processSource(ctx context.Context, strategy fetcher.Strategy) ([]grant.Record, error) {
	log := logger.ForSource(strategy.GetName())

	pages, err := strategy.FetchPages(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Fetch failed, source contributes no records")
		return nil, err
	}

	var records []grant.Record
	for _, page := range pages {
		records = append(records, w.extractor.ExtractRecords(ctx, page)...)
	}

	log.Info().
		Int("pages", len(pages)).
		Int("records", len(records)).
		Msg("Source processed")
	return records, nil
}
