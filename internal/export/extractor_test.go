package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
)

type fakeSource struct {
	lastURL string
	tables  []fetcher.Table
	err     error
}

func (f *fakeSource) FetchTables(_ context.Context, url string) ([]fetcher.Table, error) {
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return f.tables, nil
}

func layoutTables(dataRows [][]string) []fetcher.Table {
	filler := fetcher.Table{Header: []string{"x"}, Rows: [][]string{{"y"}}}
	return []fetcher.Table{filler, filler, filler, {
		Header: []string{"Países", "Quantidade (Kg)", "Valor (US$)"},
		Rows:   dataRows,
	}}
}

func TestFetchYear(t *testing.T) {
	src := &fakeSource{tables: layoutTables([][]string{
		{"Argentina", "1.234", "500"},
		{"Alemanha, República Democrática", "-", "-"},
		{"Total", "1.234", "500"},
		{"", "10", "20"},
		{"Chile", "", "30"},
	})}

	e := NewExtractor(src, "http://vitibrasil.test/")
	rows, err := e.FetchYear(context.Background(), 2020)
	require.NoError(t, err)

	t.Run("query url", func(t *testing.T) {
		assert.Equal(t, "http://vitibrasil.test/index.php?ano=2020&opcao=opt_06&subopcao=subopt_01", src.lastURL)
	})

	t.Run("total and incomplete rows dropped", func(t *testing.T) {
		require.Len(t, rows, 2)
		assert.Equal(t, "Argentina", rows[0].Country)
		assert.Equal(t, "Alemanha, República Democrática", rows[1].Country)
	})

	t.Run("dash cells are data, not missing", func(t *testing.T) {
		assert.Equal(t, "-", rows[1].QuantityKgRaw)
	})

	t.Run("year stamped", func(t *testing.T) {
		for _, r := range rows {
			assert.Equal(t, 2020, r.Year)
		}
	})
}

func TestFetchYearMissingTablePosition(t *testing.T) {
	src := &fakeSource{tables: []fetcher.Table{{Header: []string{"x"}}}}

	_, err := NewExtractor(src, "http://vitibrasil.test").FetchYear(context.Background(), 2020)
	assert.Error(t, err)
}

func TestFetchYearUnexpectedHeader(t *testing.T) {
	filler := fetcher.Table{}
	src := &fakeSource{tables: []fetcher.Table{filler, filler, filler, {
		Header: []string{"Country", "Kg", "USD"},
		Rows:   [][]string{{"Argentina", "1", "2"}},
	}}}

	_, err := NewExtractor(src, "http://vitibrasil.test").FetchYear(context.Background(), 2020)
	assert.Error(t, err)
}
