// Package core provides sales amount parsing and formatting.
//
// This file contains functions for turning the raw text of the sales
// field into a decimal amount and back into display strings.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseSales converts the sales field text to a decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. There is
// no range check: zero and negative amounts are returned as typed. Text that
// is not a number yields ErrInvalidSales, and blank text yields ErrEmptySales.
//
// Examples:
//
//	ParseSales("10000")   -> 10000, nil
//	ParseSales("12,5")    -> 12.5, nil
//	ParseSales(" -3 ")    -> -3, nil
//	ParseSales("abc")     -> 0, ErrInvalidSales
func ParseSales(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptySales
	}
	// Normalize decimal comma to dot; thousands separators are not supported.
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Join(ErrInvalidSales, err)
	}
	return d, nil
}

// FormatSales renders an amount without trailing zeros (30000, 12.5).
func FormatSales(d decimal.Decimal) string {
	return d.String()
}
