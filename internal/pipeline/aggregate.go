// Package pipeline runs the extract→enrich loop over a year range and
// assembles the unified dataset and its metadata.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/enrich"
	"github.com/abarbosa-dev/vinexport/internal/export"
	"github.com/abarbosa-dev/vinexport/internal/model"
)

// YearTable is one processed year under its label ("exp_2020").
type YearTable struct {
	Label string
	Year  int
	Rows  []model.EnrichedRow
}

// Results holds the per-year tables in processing order. Label iteration
// order is insertion order, matching the year range.
type Results []YearTable

// Labels returns the year labels in order.
func (r Results) Labels() []string {
	labels := make([]string, len(r))
	for i, yt := range r {
		labels[i] = yt.Label
	}
	return labels
}

// Metadata describes the processed dataset. It reflects only the FIRST
// year's table (apart from the year count and labels); callers must not read
// it as a description of the multi-year union.
type Metadata struct {
	DistinctCountries  int      `json:"total_paises"`
	Columns            []string `json:"colunas"`
	YearCount          int      `json:"total_anos"`
	Labels             []string `json:"anos_disponiveis"`
	NumericColumns     []string `json:"colunas_numericas"`
	CategoricalColumns []string `json:"colunas_categoricas"`
}

// YearExtractor fetches one raw year table. *export.Extractor satisfies it.
type YearExtractor interface {
	FetchYear(ctx context.Context, year int) ([]model.RawExportRow, error)
}

// Enricher transforms one raw year table. *enrich.Transformer satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, rows []model.RawExportRow) ([]model.EnrichedRow, error)
}

var (
	_ YearExtractor = (*export.Extractor)(nil)
	_ Enricher      = (*enrich.Transformer)(nil)
)

// Aggregator drives the per-year pipeline.
type Aggregator struct {
	extractor YearExtractor
	enricher  Enricher
}

// NewAggregator creates an Aggregator.
func NewAggregator(extractor YearExtractor, enricher Enricher) *Aggregator {
	return &Aggregator{extractor: extractor, enricher: enricher}
}

// Run processes every year in the inclusive range sequentially. Years are
// independent except for the shared reference-data cache; the first failure
// aborts the whole run with no partial results.
func (a *Aggregator) Run(ctx context.Context, startYear, endYear int) (Results, error) {
	if startYear > endYear {
		return nil, eris.Errorf("pipeline: invalid year range %d-%d", startYear, endYear)
	}

	log := zap.L().With(zap.String("component", "pipeline"))

	results := make(Results, 0, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		log.Info("processing year", zap.Int("year", year))

		raws, err := a.extractor.FetchYear(ctx, year)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: year %d", year)
		}

		rows, err := a.enricher.Enrich(ctx, raws)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: year %d", year)
		}

		results = append(results, YearTable{
			Label: fmt.Sprintf("exp_%d", year),
			Year:  year,
			Rows:  rows,
		})
	}

	return results, nil
}

// Unify concatenates all yearly tables in label order. No deduplication; all
// tables share the same columns by construction.
func Unify(results Results) []model.EnrichedRow {
	var total int
	for _, yt := range results {
		total += len(yt.Rows)
	}
	out := make([]model.EnrichedRow, 0, total)
	for _, yt := range results {
		out = append(out, yt.Rows...)
	}
	return out
}

// Summarize computes dataset metadata from the first year's table.
func Summarize(results Results) Metadata {
	numeric, categorical := model.ClassifyColumns()
	meta := Metadata{
		Columns:            model.Columns(),
		YearCount:          len(results),
		Labels:             results.Labels(),
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
	}

	if len(results) == 0 {
		return meta
	}

	seen := make(map[string]struct{})
	for _, row := range results[0].Rows {
		seen[row.Country] = struct{}{}
	}
	meta.DistinctCountries = len(seen)

	return meta
}
