package enrich

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abarbosa-dev/vinexport/internal/model"
)

// normalizeNumeric prepares a Vitibrasil numeric cell for parsing: a literal
// "-" means zero, and "." is a thousands separator, never a decimal point.
func normalizeNumeric(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return "0"
	}
	return strings.ReplaceAll(s, ".", "")
}

// parseQuantityKg parses a locale-formatted kilogram cell. Unparseable values
// become null and propagate as missing through later derivations.
func parseQuantityKg(s string) model.NullInt64 {
	v, err := strconv.ParseInt(normalizeNumeric(s), 10, 64)
	if err != nil {
		return model.NullInt64{}
	}
	return model.Int64(v)
}

// parseValueUSD parses a locale-formatted US$ cell.
func parseValueUSD(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(normalizeNumeric(s))
	if err != nil {
		return model.NullDec()
	}
	return model.Dec(d)
}
