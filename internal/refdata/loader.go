// Package refdata loads and caches the two reference tables the enrichment
// pipeline joins against: USD/BRL exchange-rate history and the
// country→continent classification.
package refdata

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
	"github.com/abarbosa-dev/vinexport/internal/model"
)

// Options configures the reference-data sources.
type Options struct {
	RatesURL      string
	ContinentsURL string
}

// Loader fetches the reference tables lazily on first use and memoizes them
// for the process lifetime. A failed fetch is not cached; the next call
// retries. Callers always receive independent copies.
type Loader struct {
	src  fetcher.TableSource
	opts Options

	mu         sync.Mutex
	rates      []model.ExchangeRate
	continents model.ContinentMap
}

// NewLoader creates a Loader over the given table source.
func NewLoader(src fetcher.TableSource, opts Options) *Loader {
	return &Loader{src: src, opts: opts}
}

// ExchangeRates returns the USD/BRL exchange-rate history, one row per year.
func (l *Loader) ExchangeRates(ctx context.Context) ([]model.ExchangeRate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rates == nil {
		tables, err := l.src.FetchTables(ctx, l.opts.RatesURL)
		if err != nil {
			return nil, eris.Wrap(err, "refdata: fetch exchange rates")
		}
		table, err := fetcher.TableAt(tables, 0)
		if err != nil {
			return nil, eris.Wrap(err, "refdata: exchange rates")
		}

		rates, err := parseExchangeRates(table)
		if err != nil {
			return nil, err
		}
		l.rates = rates
		zap.L().Info("exchange rates loaded",
			zap.String("component", "refdata"),
			zap.Int("years", len(rates)),
		)
	}

	out := make([]model.ExchangeRate, len(l.rates))
	copy(out, l.rates)
	return out, nil
}

// Continents returns the country→continent map with the manual overrides
// applied.
func (l *Loader) Continents(ctx context.Context) (model.ContinentMap, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.continents == nil {
		tables, err := l.src.FetchTables(ctx, l.opts.ContinentsURL)
		if err != nil {
			return nil, eris.Wrap(err, "refdata: fetch continents")
		}
		table, err := fetcher.TableAt(tables, 0)
		if err != nil {
			return nil, eris.Wrap(err, "refdata: continents")
		}

		continents, err := parseContinents(table)
		if err != nil {
			return nil, err
		}
		l.continents = continents
		zap.L().Info("continent map loaded",
			zap.String("component", "refdata"),
			zap.Int("countries", len(continents)),
		)
	}

	return l.continents.Clone(), nil
}
