package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MsgMissingFields is shown when Add is clicked without both fields filled.
const MsgMissingFields = "Please fill in both category and sales amount"

var (
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptySales    = errors.New("empty sales amount")
	ErrInvalidSales  = errors.New("invalid sales amount")
)

// Form holds the raw values of the two input fields exactly as submitted.
type Form struct {
	Category string
	Sales    string
}

// IsEmpty reports whether both fields are blank.
func (f Form) IsEmpty() bool {
	return f.Category == "" && f.Sales == ""
}

// Validate performs the presence check for an Add. Any non-empty category is
// accepted as typed, whitespace included. Sales must be present and parse as
// a number, since a number input submits nothing for non-numeric text.
func (f Form) Validate() error {
	if f.Category == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseSales(f.Sales); err != nil {
		return err
	}
	return nil
}

// Record converts a validated form into a dataset row. The category is kept
// exactly as submitted.
func (f Form) Record() (Record, error) {
	if err := f.Validate(); err != nil {
		return Record{}, err
	}
	sales, err := ParseSales(f.Sales)
	if err != nil {
		return Record{}, err
	}
	return Record{Category: f.Category, Sales: sales}, nil
}

// salesOrZero is used for event payloads where a rejected form may carry
// unparseable text.
func (f Form) salesOrZero() decimal.Decimal {
	d, err := ParseSales(f.Sales)
	if err != nil {
		return decimal.Zero
	}
	return d
}
