package main

import (
	"time"

	"github.com/abarbosa-dev/vinexport/internal/enrich"
	"github.com/abarbosa-dev/vinexport/internal/export"
	"github.com/abarbosa-dev/vinexport/internal/fetcher"
	"github.com/abarbosa-dev/vinexport/internal/pipeline"
	"github.com/abarbosa-dev/vinexport/internal/refdata"
	"github.com/abarbosa-dev/vinexport/internal/store"
)

// buildSource wires the HTTP fetcher into a table source.
func buildSource() fetcher.TableSource {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.Fetch.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
	return fetcher.NewHTMLTableSource(f)
}

// buildLoader wires the reference-data loader over a table source.
func buildLoader(src fetcher.TableSource) *refdata.Loader {
	return refdata.NewLoader(src, refdata.Options{
		RatesURL:      cfg.Sources.ExchangeRatesURL,
		ContinentsURL: cfg.Sources.ContinentsURL,
	})
}

// buildAggregator wires the full extract→enrich pipeline.
func buildAggregator(density float64) *pipeline.Aggregator {
	src := buildSource()
	extractor := export.NewExtractor(src, cfg.Sources.VitibrasilBaseURL)
	transformer := enrich.New(buildLoader(src), density)
	return pipeline.NewAggregator(extractor, transformer)
}

// initStore opens the run-log database.
func initStore() (*store.SQLiteStore, error) {
	return store.NewSQLite(cfg.Store.Path)
}
