package refdata

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/abarbosa-dev/vinexport/internal/fetcher"
	"github.com/abarbosa-dev/vinexport/internal/model"
)

const (
	colCountry   = "PAÍS"
	colContinent = "CONTINENTE"
)

// continentOverrides corrects countries whose source classification is wrong
// or ambiguous (transcontinental countries pinned to the side Brazilian trade
// statistics use).
var continentOverrides = map[string]string{
	"Rússia":      "Europa",
	"Turquia":     "Ásia",
	"Cazaquistão": "Ásia",
}

func parseContinents(table *fetcher.Table) (model.ContinentMap, error) {
	countryIdx := table.ColumnIndex(colCountry)
	continentIdx := table.ColumnIndex(colContinent)
	if countryIdx < 0 || continentIdx < 0 {
		return nil, eris.Errorf("refdata: continent table missing %q or %q column", colCountry, colContinent)
	}

	out := make(model.ContinentMap, len(table.Rows))
	for _, row := range table.Rows {
		country := strings.TrimSpace(cell(row, countryIdx))
		if country == "" {
			continue
		}
		if continent, ok := continentOverrides[country]; ok {
			out[country] = continent
			continue
		}
		out[country] = strings.TrimSpace(cell(row, continentIdx))
	}

	return out, nil
}
