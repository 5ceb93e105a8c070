package refdata

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
)

// fakeSource serves canned tables per URL and counts fetches.
type fakeSource struct {
	tables map[string][]fetcher.Table
	errs   map[string]error
	calls  map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tables: map[string][]fetcher.Table{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *fakeSource) FetchTables(_ context.Context, url string) ([]fetcher.Table, error) {
	f.calls[url]++
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.tables[url], nil
}

func ratesTable() fetcher.Table {
	return fetcher.Table{
		Header: []string{"Año", "Precio Cierre", "Cambio %", "Promedio", "Mínimo", "Máximo"},
		Rows: [][]string{
			{"2020", "5,1967", "+22,4%", "5,1550", "4,0213", "5,8892"},
			{"2019", "4,0307", "+3,5%", "3,9456", "3,6519", "4,2601"},
			{"1994*", "n/d", "", "n/d", "n/d", "n/d"},
		},
	}
}

func continentsTable() fetcher.Table {
	return fetcher.Table{
		Header: []string{"PAÍS", "CONTINENTE"},
		Rows: [][]string{
			{"Alemanha", "Europa"},
			{"Rússia", "Ásia"}, // source mislabels; override pins Europa
			{"Japão", "Ásia"},
			{"", "Oceania"},
		},
	}
}

func newTestLoader(src fetcher.TableSource) *Loader {
	return NewLoader(src, Options{
		RatesURL:      "http://rates.test",
		ContinentsURL: "http://continents.test",
	})
}

func TestExchangeRates(t *testing.T) {
	src := newFakeSource()
	src.tables["http://rates.test"] = []fetcher.Table{ratesTable()}
	l := newTestLoader(src)

	rates, err := l.ExchangeRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)

	t.Run("comma decimals rounded to 2", func(t *testing.T) {
		assert.Equal(t, 2020, rates[0].Year)
		assert.Equal(t, "5.2", rates[0].ClosePrice.Decimal.String())
		assert.Equal(t, "5.16", rates[0].Average.Decimal.String())
		assert.Equal(t, "4.02", rates[0].Min.Decimal.String())
		assert.Equal(t, "5.89", rates[0].Max.Decimal.String())
		assert.Equal(t, "+22,4%", rates[0].ChangePct)
	})

	t.Run("yearless footer rows dropped", func(t *testing.T) {
		for _, r := range rates {
			assert.NotZero(t, r.Year)
		}
	})

	t.Run("cached after first fetch", func(t *testing.T) {
		_, err := l.ExchangeRates(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, src.calls["http://rates.test"])
	})

	t.Run("callers get independent copies", func(t *testing.T) {
		a, err := l.ExchangeRates(context.Background())
		require.NoError(t, err)
		a[0].Year = 1900

		b, err := l.ExchangeRates(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2020, b[0].Year)
	})
}

func TestExchangeRatesUnparseableCellIsNull(t *testing.T) {
	src := newFakeSource()
	tbl := ratesTable()
	tbl.Rows = [][]string{{"2018", "blah", "", "3,87", "3,13", "4,19"}}
	src.tables["http://rates.test"] = []fetcher.Table{tbl}

	rates, err := newTestLoader(src).ExchangeRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.False(t, rates[0].ClosePrice.Valid)
	assert.True(t, rates[0].Average.Valid)
}

func TestExchangeRatesMissingColumn(t *testing.T) {
	src := newFakeSource()
	src.tables["http://rates.test"] = []fetcher.Table{{
		Header: []string{"Año", "Promedio"},
		Rows:   [][]string{{"2020", "5,15"}},
	}}

	_, err := newTestLoader(src).ExchangeRates(context.Background())
	assert.Error(t, err)
}

func TestExchangeRatesFetchFailureNotCached(t *testing.T) {
	src := newFakeSource()
	src.errs["http://rates.test"] = eris.New("boom")
	l := newTestLoader(src)

	_, err := l.ExchangeRates(context.Background())
	require.Error(t, err)

	// Next call retries instead of serving a cached failure.
	src.errs["http://rates.test"] = nil
	src.tables["http://rates.test"] = []fetcher.Table{ratesTable()}
	rates, err := l.ExchangeRates(context.Background())
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.Equal(t, 2, src.calls["http://rates.test"])
}

func TestContinents(t *testing.T) {
	src := newFakeSource()
	src.tables["http://continents.test"] = []fetcher.Table{continentsTable()}
	l := newTestLoader(src)

	m, err := l.Continents(context.Background())
	require.NoError(t, err)

	t.Run("source rows kept", func(t *testing.T) {
		assert.Equal(t, "Europa", m["Alemanha"])
		assert.Equal(t, "Ásia", m["Japão"])
	})

	t.Run("overrides win", func(t *testing.T) {
		assert.Equal(t, "Europa", m["Rússia"])
	})

	t.Run("blank country rows dropped", func(t *testing.T) {
		assert.Len(t, m, 3)
	})

	t.Run("cached and copied", func(t *testing.T) {
		m["Alemanha"] = "mutated"
		again, err := l.Continents(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Europa", again["Alemanha"])
		assert.Equal(t, 1, src.calls["http://continents.test"])
	})
}

func TestContinentsMissingColumns(t *testing.T) {
	src := newFakeSource()
	src.tables["http://continents.test"] = []fetcher.Table{{
		Header: []string{"Country", "Region"},
		Rows:   [][]string{{"Alemanha", "Europa"}},
	}}

	_, err := newTestLoader(src).Continents(context.Background())
	assert.Error(t, err)
}
