package model

import (
	"reflect"

	"github.com/jszwec/csvutil"
	"github.com/shopspring/decimal"
)

// RawExportRow is one country/year row as scraped from the Vitibrasil export
// table, numeric fields still in their locale-formatted string form.
type RawExportRow struct {
	Country       string
	QuantityKgRaw string
	ValueUSDRaw   string
	Year          int
}

// ExchangeRate is one year of USD/BRL exchange-rate history after header
// normalization. Unparseable source cells are null, never an error.
type ExchangeRate struct {
	Year       int
	ClosePrice decimal.NullDecimal
	ChangePct  string
	Average    decimal.NullDecimal
	Min        decimal.NullDecimal
	Max        decimal.NullDecimal
}

// ContinentMap maps a country name to its continent.
type ContinentMap map[string]string

// Clone returns an independent copy.
func (m ContinentMap) Clone() ContinentMap {
	out := make(ContinentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// EnrichedRow is a fully processed export record. CSV tags carry the dataset's
// original Portuguese column names so artifacts stay compatible with
// downstream consumers of the Embrapa extracts.
type EnrichedRow struct {
	Country     string              `csv:"Países"`
	QuantityKg  NullInt64           `csv:"Quantidade (Kg)"`
	ValueUSD    decimal.NullDecimal `csv:"Valor (US$)"`
	Year        int                 `csv:"Ano"`
	ClosePrice  decimal.NullDecimal `csv:"Preco_fechamento"`
	ChangePct   string              `csv:"Cambio%"`
	Rate        decimal.NullDecimal `csv:"Cambio"`
	RateMin     decimal.NullDecimal `csv:"Minimo"`
	RateMax     decimal.NullDecimal `csv:"Maximo"`
	QuantityL   decimal.NullDecimal `csv:"Quantidade (L)"`
	ValueBRL    decimal.NullDecimal `csv:"Valor (R$)"`
	PerLiterUSD decimal.NullDecimal `csv:"Valor (L) US$"`
	PerLiterBRL decimal.NullDecimal `csv:"Valor (L) R$"`
	Continent   string              `csv:"CONTINENTE"`
	MarketShare decimal.NullDecimal `csv:"Market_Share"`
	VolumeTier  VolumeTier          `csv:"Quantidade_Volume"`
}

// Columns returns the CSV column names in struct order.
func Columns() []string {
	header, err := csvutil.Header(EnrichedRow{}, "csv")
	if err != nil {
		// EnrichedRow is a struct literal; Header cannot fail on it.
		panic(err)
	}
	return header
}

// ClassifyColumns splits the CSV columns into numeric and categorical groups
// based on the underlying Go field types.
func ClassifyColumns() (numeric, categorical []string) {
	t := reflect.TypeOf(EnrichedRow{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("csv")
		if f.Type.Kind() == reflect.String {
			categorical = append(categorical, name)
		} else {
			numeric = append(numeric, name)
		}
	}
	return numeric, categorical
}
