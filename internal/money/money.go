// Package money provides the exact decimal amount type used for every
// monetary field in the ledger core. Amounts are backed by
// shopspring/decimal; binary floating point never touches a balance.
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable exact decimal amount.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
func Zero() Money {
	return Money{}
}

// FromDecimal wraps a decimal value as Money.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// FromCents builds an amount from an integer count of minor units.
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -2)}
}

// FromInt builds a whole-unit amount.
func FromInt(units int64) Money {
	return Money{d: decimal.NewFromInt(units)}
}

// Parse reads a decimal string such as "1234.56".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return Money{d: d}, nil
}

// MustParse is Parse for static fixtures; it panics on malformed input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinorUnit returns the smallest representable currency step (one cent).
// Report balance checks use it as their epsilon.
func MinorUnit() Money {
	return Money{d: decimal.New(1, -2)}
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	return Money{d: m.d.Abs()}
}

// MulQuantity scales the amount by an exact quantity.
func (m Money) MulQuantity(qty decimal.Decimal) Money {
	return Money{d: m.d.Mul(qty)}
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, 1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether both amounts are exactly equal.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool {
	return m.d.LessThan(other.d)
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.d.GreaterThan(other.d)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsPositive reports m > 0.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// IsNegative reports m < 0.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// String renders the amount as a plain decimal string.
func (m Money) String() string {
	return m.d.String()
}

// StringFixed renders the amount with exactly two decimal places.
func (m Money) StringFixed() string {
	return m.d.StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON string to avoid float coercion
// in consumers.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.d.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: unmarshal: %w", err)
	}
	m.d = d
	return nil
}

// Scan implements sql.Scanner so Money can be read from numeric columns.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("money: scan: %w", err)
	}
	m.d = d
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.d.Value()
}

// Sum adds a series of amounts.
func Sum(amounts ...Money) Money {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
