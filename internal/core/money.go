// Package core provides money parsing and handling utilities.
//
// Amounts are held as signed integer cents so that sums over many small
// transactions never drift. Decimal conversion only happens at the edges:
// when parsing user input and when encoding JSON.
package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when formatting amounts without an explicit currency.
const DefaultCurrency = money.EUR

// Money is an amount in minor currency units.
type Money struct {
	Cents int64
}

// Cents is a shorthand constructor.
func Cents(c int64) Money { return Money{Cents: c} }

// MoneyFromDecimal rounds d half away from zero to two decimal places.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(n Money) Money     { return Money{Cents: m.Cents + n.Cents} }
func (m Money) Sub(n Money) Money     { return Money{Cents: m.Cents - n.Cents} }
func (m Money) Neg() Money            { return Money{Cents: -m.Cents} }
func (m Money) IsZero() bool          { return m.Cents == 0 }
func (m Money) IsPositive() bool      { return m.Cents > 0 }
func (m Money) IsNegative() bool      { return m.Cents < 0 }
func (m Money) Equal(n Money) bool    { return m.Cents == n.Cents }
func (m Money) LessThan(n Money) bool { return m.Cents < n.Cents }

// Validate requires a strictly positive amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount with the symbol and separators of currency.
func (m Money) Format(currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return money.New(m.Cents, strings.ToUpper(currency)).Display()
}

// MarshalJSON encodes the amount as a decimal number, e.g. 12.5.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts decimal numbers and numeric strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return fmt.Errorf("decode amount %s: %w", b, err)
	}
	*m = MoneyFromDecimal(d)
	return nil
}

// ParseAmount reads a decimal amount, accepting both dot (12.34) and comma
// (12,34) separators. Extra fraction digits are rounded half away from zero.
//
// Examples:
//
//	ParseAmount("12.34")   -> 1234
//	ParseAmount("12,345")  -> 1235
//	ParseAmount("-12.345") -> -1235
//	ParseAmount("-3")      -> -300
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, Invalid("amount", "empty amount")
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Invalid("amount", fmt.Sprintf("malformed amount %q", s))
	}
	return MoneyFromDecimal(d), nil
}

// ParseAmountOrZero is the single coercion point for numeric input:
// anything that does not parse as a decimal becomes zero.
func ParseAmountOrZero(s string) Money {
	m, err := ParseAmount(s)
	if err != nil {
		return Money{}
	}
	return m
}
