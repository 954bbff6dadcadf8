package money

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency code together with its display symbol and
// the number of minor units used when amounts are shown to applicants.
type Currency struct {
	code      string
	symbol    string
	minorUnit int32
}

// NewCurrency creates a Currency after validating the code is exactly 3 uppercase letters.
func NewCurrency(code, symbol string, minorUnit int32) (Currency, error) {
	if !currencyCodeRe.MatchString(code) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 uppercase letters", code)
	}
	if minorUnit < 0 || minorUnit > 4 {
		return Currency{}, fmt.Errorf("invalid minor unit %d for %s", minorUnit, code)
	}
	if symbol == "" {
		symbol = code
	}
	return Currency{code: code, symbol: symbol, minorUnit: minorUnit}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code, symbol string, minorUnit int32) Currency {
	c, err := NewCurrency(code, symbol, minorUnit)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string { return c.code }

// Symbol returns the display symbol, e.g. "S/".
func (c Currency) Symbol() string { return c.symbol }

// MinorUnit returns the number of decimal places of the currency.
func (c Currency) MinorUnit() int32 { return c.minorUnit }

// String returns the currency code.
func (c Currency) String() string { return c.code }

// Known currencies.
var (
	PEN = MustCurrency("PEN", "S/", 2)
	USD = MustCurrency("USD", "$", 2)
)

var known = map[string]Currency{
	PEN.code: PEN,
	USD.code: USD,
}

// Lookup returns a known currency by code.
func Lookup(code string) (Currency, error) {
	c, ok := known[code]
	if !ok {
		return Currency{}, fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// Money represents an immutable monetary amount with currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// Display formats the amount with the currency symbol at the given scale,
// for example "S/ 1054" or "S/ 1053.71".
func (m Money) Display(scale int32) string {
	return fmt.Sprintf("%s %s", m.currency.symbol, m.amount.StringFixed(scale))
}

// String formats the Money value as "<amount> <currency>" using the currency's minor unit.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(m.currency.minorUnit), m.currency.code)
}

// Ceil rounds amount up to the given number of decimal places. Installment
// amounts are never rounded down.
func Ceil(amount decimal.Decimal, scale int32) decimal.Decimal {
	return amount.RoundCeil(scale)
}

// Unit returns the smallest representable step at the given scale (10^-scale).
func Unit(scale int32) decimal.Decimal {
	return decimal.New(1, -scale)
}
