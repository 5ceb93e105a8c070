package writer

import (
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"

	"github.com/abarbosa-dev/vinexport/internal/model"
)

const unifiedXLSXName = fileStem + "_exp.xlsx"

// WriteUnifiedXLSX writes the unified dataset as a single-sheet XLSX workbook
// and returns its path.
func (w *Writer) WriteUnifiedXLSX(rows []model.EnrichedRow) (string, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("exportacoes")
	if err != nil {
		return "", eris.Wrap(err, "writer: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.Columns() {
		header.AddCell().Value = col
	}

	for i := range rows {
		xr := sheet.AddRow()
		for _, v := range cellValues(&rows[i]) {
			xr.AddCell().Value = v
		}
	}

	path := filepath.Join(w.dir, unifiedXLSXName)
	if err := file.Save(path); err != nil {
		return "", eris.Wrapf(err, "writer: save %s", unifiedXLSXName)
	}
	return path, nil
}

// cellValues formats a row's fields in column order. Null cells are empty
// strings, matching the CSV artifacts.
func cellValues(r *model.EnrichedRow) []string {
	return []string{
		r.Country,
		nullIntStr(r.QuantityKg),
		nullDecStr(r.ValueUSD),
		strconv.Itoa(r.Year),
		nullDecStr(r.ClosePrice),
		r.ChangePct,
		nullDecStr(r.Rate),
		nullDecStr(r.RateMin),
		nullDecStr(r.RateMax),
		nullDecStr(r.QuantityL),
		nullDecStr(r.ValueBRL),
		nullDecStr(r.PerLiterUSD),
		nullDecStr(r.PerLiterBRL),
		r.Continent,
		nullDecStr(r.MarketShare),
		string(r.VolumeTier),
	}
}

func nullDecStr(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func nullIntStr(n model.NullInt64) string {
	b, _ := n.MarshalText()
	return string(b)
}
