package refdata

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
	"github.com/abarbosa-dev/vinexport/internal/model"
)

// The exchange-rate source publishes Spanish headers.
const (
	colYear      = "Año"
	colClose     = "Precio Cierre"
	colChangePct = "Cambio %"
	colAverage   = "Promedio"
	colMin       = "Mínimo"
	colMax       = "Máximo"
)

func parseExchangeRates(table *fetcher.Table) ([]model.ExchangeRate, error) {
	idx := make(map[string]int, 6)
	for _, name := range []string{colYear, colClose, colChangePct, colAverage, colMin, colMax} {
		i := table.ColumnIndex(name)
		if i < 0 {
			return nil, eris.Errorf("refdata: exchange rates missing column %q", name)
		}
		idx[name] = i
	}

	rates := make([]model.ExchangeRate, 0, len(table.Rows))
	for _, row := range table.Rows {
		year, err := strconv.Atoi(strings.TrimSpace(cell(row, idx[colYear])))
		if err != nil {
			// Footer or annotation rows carry no year.
			continue
		}
		rates = append(rates, model.ExchangeRate{
			Year:       year,
			ClosePrice: parseCommaDecimal(cell(row, idx[colClose])),
			ChangePct:  strings.TrimSpace(cell(row, idx[colChangePct])),
			Average:    parseCommaDecimal(cell(row, idx[colAverage])),
			Min:        parseCommaDecimal(cell(row, idx[colMin])),
			Max:        parseCommaDecimal(cell(row, idx[colMax])),
		})
	}

	return rates, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// parseCommaDecimal converts a decimal-comma string ("5,39") to a decimal
// rounded to two places. Unparseable values become null, not errors.
func parseCommaDecimal(s string) decimal.NullDecimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return model.NullDec()
	}
	return model.Dec(d.Round(2))
}
