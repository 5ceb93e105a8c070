// Package export extracts the raw per-year wine export table from the
// Embrapa Vitibrasil site.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
	"github.com/abarbosa-dev/vinexport/internal/model"
)

// Vitibrasil column headers and the sentinel grand-total row.
const (
	colCountry  = "Países"
	colQuantity = "Quantidade (Kg)"
	colValue    = "Valor (US$)"

	totalSentinel = "Total"

	// The export data table is the 4th table in the page layout. The
	// selection is positional on purpose: the site has no stable ids.
	exportTableIndex = 3
)

// Extractor fetches one raw export table per year.
type Extractor struct {
	src     fetcher.TableSource
	baseURL string
}

// NewExtractor creates an Extractor querying the given Vitibrasil base URL.
func NewExtractor(src fetcher.TableSource, baseURL string) *Extractor {
	return &Extractor{src: src, baseURL: strings.TrimRight(baseURL, "/")}
}

// queryURL builds the per-year request. opt_06/subopt_01 selects the
// table-wine export report.
func (e *Extractor) queryURL(year int) string {
	return fmt.Sprintf("%s/index.php?ano=%d&opcao=opt_06&subopcao=subopt_01", e.baseURL, year)
}

// FetchYear downloads the export table for one year, drops incomplete rows
// and the grand-total row, and stamps every remaining row with the year.
func (e *Extractor) FetchYear(ctx context.Context, year int) ([]model.RawExportRow, error) {
	url := e.queryURL(year)

	tables, err := e.src.FetchTables(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "export: fetch year %d", year)
	}

	table, err := fetcher.TableAt(tables, exportTableIndex)
	if err != nil {
		return nil, eris.Wrapf(err, "export: year %d", year)
	}

	countryIdx := table.ColumnIndex(colCountry)
	quantityIdx := table.ColumnIndex(colQuantity)
	valueIdx := table.ColumnIndex(colValue)
	if countryIdx < 0 || quantityIdx < 0 || valueIdx < 0 {
		return nil, eris.Errorf("export: year %d table is missing expected columns (header %v)", year, table.Header)
	}

	rows := make([]model.RawExportRow, 0, len(table.Rows))
	dropped := 0
	for _, raw := range table.Rows {
		country := strings.TrimSpace(cellAt(raw, countryIdx))
		quantity := strings.TrimSpace(cellAt(raw, quantityIdx))
		value := strings.TrimSpace(cellAt(raw, valueIdx))

		if country == "" || quantity == "" || value == "" || country == totalSentinel {
			dropped++
			continue
		}

		rows = append(rows, model.RawExportRow{
			Country:       country,
			QuantityKgRaw: quantity,
			ValueUSDRaw:   value,
			Year:          year,
		})
	}

	zap.L().Debug("year export table extracted",
		zap.String("component", "export"),
		zap.Int("year", year),
		zap.Int("rows", len(rows)),
		zap.Int("dropped", dropped),
	)

	return rows, nil
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
