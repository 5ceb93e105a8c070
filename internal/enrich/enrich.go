// Package enrich cleans a raw yearly export table and derives its financial
// and volume metrics.
package enrich

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/model"
)

// ReferenceData provides the lookup tables the transformer joins against.
// *refdata.Loader satisfies it.
type ReferenceData interface {
	ExchangeRates(ctx context.Context) ([]model.ExchangeRate, error)
	Continents(ctx context.Context) (model.ContinentMap, error)
}

// Transformer enriches raw export rows. Stateless apart from its
// collaborators; safe to reuse across years.
type Transformer struct {
	refdata ReferenceData
	density decimal.Decimal
}

// New creates a Transformer. densityKgPerL converts kilograms to liters;
// 0.995 is the approximate density of wine.
func New(refdata ReferenceData, densityKgPerL float64) *Transformer {
	return &Transformer{
		refdata: refdata,
		density: decimal.NewFromFloat(densityKgPerL),
	}
}

// Enrich runs the full transformation over one year's raw table:
// numeric cleaning, country-name correction, exchange-rate and continent
// joins, derived liter/currency metrics, per-year market share, and volume
// tiers. Per-cell parse failures become nulls; only structural problems
// (reference fetches) return an error.
func (t *Transformer) Enrich(ctx context.Context, raws []model.RawExportRow) ([]model.EnrichedRow, error) {
	if !t.density.IsPositive() {
		return nil, eris.Errorf("enrich: density must be positive, got %s", t.density)
	}

	rates, err := t.refdata.ExchangeRates(ctx)
	if err != nil {
		return nil, err
	}
	ratesByYear := make(map[int]model.ExchangeRate, len(rates))
	for _, r := range rates {
		ratesByYear[r.Year] = r
	}

	continents, err := t.refdata.Continents(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.EnrichedRow, len(raws))
	for i, raw := range raws {
		row := model.EnrichedRow{
			Country:    CorrectCountry(raw.Country),
			QuantityKg: parseQuantityKg(raw.QuantityKgRaw),
			ValueUSD:   parseValueUSD(raw.ValueUSDRaw),
			Year:       raw.Year,
		}

		// Left join: a year outside the exchange-rate coverage keeps
		// null rate fields, so BRL derivations stay null.
		if rate, ok := ratesByYear[raw.Year]; ok {
			row.ClosePrice = rate.ClosePrice
			row.ChangePct = rate.ChangePct
			row.Rate = rate.Average
			row.RateMin = rate.Min
			row.RateMax = rate.Max
		}

		if row.QuantityKg.Valid {
			kg := decimal.NewFromInt(row.QuantityKg.Int64)
			row.QuantityL = model.Dec(kg.Div(t.density).Round(2))
		}

		row.ValueBRL = model.Round2(model.Mul(row.ValueUSD, row.Rate))
		row.PerLiterUSD = perLiter(row.ValueUSD, row.QuantityL)
		row.PerLiterBRL = perLiter(row.ValueBRL, row.QuantityL)

		row.Continent = continents[row.Country]

		rows[i] = row
	}

	applyMarketShare(rows)

	liters := make([]decimal.NullDecimal, len(rows))
	for i := range rows {
		liters[i] = rows[i].QuantityL
	}
	for i, tier := range assignTiers(liters) {
		rows[i].VolumeTier = tier
	}

	zap.L().Debug("year enriched",
		zap.String("component", "enrich"),
		zap.Int("rows", len(rows)),
	)

	return rows, nil
}

// perLiter divides value by liters, forced to exactly zero whenever the
// volume is not strictly positive so a zero or missing volume never causes a
// division error.
func perLiter(value, liters decimal.NullDecimal) decimal.NullDecimal {
	if !model.Positive(liters) {
		return model.Dec(decimal.Zero)
	}
	return model.Round2(model.Div(value, liters))
}

// applyMarketShare sets each row's US$ value as a percentage of this table's
// total. The denominator is the per-year total on purpose: share is relative
// to the year, not the multi-year union.
func applyMarketShare(rows []model.EnrichedRow) {
	total := decimal.Zero
	for i := range rows {
		if rows[i].ValueUSD.Valid {
			total = total.Add(rows[i].ValueUSD.Decimal)
		}
	}

	hundred := decimal.NewFromInt(100)
	for i := range rows {
		if !rows[i].ValueUSD.Valid || !total.IsPositive() {
			rows[i].MarketShare = model.NullDec()
			continue
		}
		rows[i].MarketShare = model.Dec(rows[i].ValueUSD.Decimal.Div(total).Mul(hundred).Round(2))
	}
}
