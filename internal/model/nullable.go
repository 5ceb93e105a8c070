// Package model defines the record types flowing through the export pipeline
// and the nullable numeric helpers used for missing-value propagation.
package model

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// NullInt64 is an int64 that distinguishes a missing value from zero.
// It serializes to an empty CSV cell when invalid.
type NullInt64 struct {
	Int64 int64
	Valid bool
}

// Int64 returns a valid NullInt64.
func Int64(v int64) NullInt64 {
	return NullInt64{Int64: v, Valid: true}
}

// MarshalText implements encoding.TextMarshaler.
func (n NullInt64) MarshalText() ([]byte, error) {
	if !n.Valid {
		return []byte(""), nil
	}
	return []byte(strconv.FormatInt(n.Int64, 10)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty cell is null.
func (n *NullInt64) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		*n = NullInt64{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*n = NullInt64{Int64: v, Valid: true}
	return nil
}

// Dec wraps a decimal in a valid NullDecimal.
func Dec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// NullDec returns the null decimal.
func NullDec() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Mul multiplies two nullable decimals. Null if either operand is null.
func Mul(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return NullDec()
	}
	return Dec(a.Decimal.Mul(b.Decimal))
}

// Div divides a by b. Null if either operand is null. Callers must guard
// against a zero divisor.
func Div(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return NullDec()
	}
	return Dec(a.Decimal.Div(b.Decimal))
}

// Round2 rounds a nullable decimal to two places. Null stays null.
func Round2(a decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid {
		return a
	}
	return Dec(a.Decimal.Round(2))
}

// Positive reports whether the value is non-null and strictly greater than zero.
func Positive(a decimal.NullDecimal) bool {
	return a.Valid && a.Decimal.IsPositive()
}
