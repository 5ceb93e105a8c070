package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiTablePage = `<!DOCTYPE html>
<html><body>
<table><tr><th>Menu</th></tr><tr><td>Home</td></tr></table>
<table><tr><td>Banner</td></tr></table>
<table><tr><th>Nav</th></tr><tr><td>Links</td></tr></table>
<table>
  <tr><th>Países</th><th>Quantidade (Kg)</th><th>Valor (US$)</th></tr>
  <tr><td>Argentina</td><td>1.234</td><td>500</td></tr>
  <tr><td>  Chile  </td><td> 99 </td><td> 10 </td></tr>
  <tr><td>Total</td><td>1.333</td><td>510</td></tr>
</table>
</body></html>`

func TestParseTables(t *testing.T) {
	tables, err := ParseTables(strings.NewReader(multiTablePage), "text/html; charset=utf-8")
	require.NoError(t, err)
	require.Len(t, tables, 4)

	data := tables[3]
	assert.Equal(t, []string{"Países", "Quantidade (Kg)", "Valor (US$)"}, data.Header)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"Argentina", "1.234", "500"}, data.Rows[0])

	t.Run("whitespace collapsed", func(t *testing.T) {
		assert.Equal(t, []string{"Chile", "99", "10"}, data.Rows[1])
	})

	t.Run("column lookup", func(t *testing.T) {
		assert.Equal(t, 1, data.ColumnIndex("Quantidade (Kg)"))
		assert.Equal(t, -1, data.ColumnIndex("missing"))
	})
}

func TestParseTablesNested(t *testing.T) {
	page := `<table>
		<tr><th>Outer</th></tr>
		<tr><td><table><tr><td>inner cell</td></tr></table></td></tr>
	</table>`

	tables, err := ParseTables(strings.NewReader(page), "")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	// Nested table content stays out of the outer cell.
	require.Len(t, tables[0].Rows, 1)
	assert.Equal(t, []string{""}, tables[0].Rows[0])
	assert.Equal(t, []string{"inner cell"}, tables[1].Header)
}

func TestParseTablesLatin1(t *testing.T) {
	// "Países" in ISO-8859-1: Pa\xedses
	raw := "<html><body><table><tr><th>Pa\xedses</th></tr><tr><td>Fran\xe7a</td></tr></table></body></html>"

	tables, err := ParseTables(strings.NewReader(raw), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"Países"}, tables[0].Header)
	assert.Equal(t, []string{"França"}, tables[0].Rows[0])
}

func TestTableAt(t *testing.T) {
	tables := []Table{{}, {Header: []string{"x"}}}

	got, err := TableAt(tables, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got.Header)

	_, err = TableAt(tables, 3)
	assert.Error(t, err)
	_, err = TableAt(tables, -1)
	assert.Error(t, err)
}

func TestHTMLTableSourceFetchTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(multiTablePage))
	}))
	defer srv.Close()

	src := NewHTMLTableSource(newTestFetcher())
	tables, err := src.FetchTables(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, tables, 4)
}
