package core

import (
	"github.com/shopspring/decimal"
)

type (
	// Record is one category/sales row of the dashboard.
	Record struct {
		Category string
		Sales    decimal.Decimal
	}

	// Dataset is the ordered list of records currently shown. Rows are never
	// merged or reordered; duplicate categories are separate rows.
	Dataset []Record
)

// seedRows is the dataset shown on first load and after a reset.
var seedRows = []struct {
	category string
	sales    int64
}{
	{"Electronics", 30000},
	{"Clothing", 20000},
	{"Food", 15000},
}

// SeedDataset returns a fresh copy of the seed set.
func SeedDataset() Dataset {
	ds := make(Dataset, 0, len(seedRows))
	for _, row := range seedRows {
		ds = append(ds, Record{Category: row.category, Sales: decimal.NewFromInt(row.sales)})
	}
	return ds
}

// NewRecord builds a record from an integer sales amount.
func NewRecord(category string, sales int64) Record {
	return Record{Category: category, Sales: decimal.NewFromInt(sales)}
}

// Len returns the number of rows.
func (d Dataset) Len() int {
	return len(d)
}

// Append returns a new dataset with r added at the end. The receiver is
// left untouched so callers holding the previous dataset never observe
// the new row.
func (d Dataset) Append(r Record) Dataset {
	out := make(Dataset, len(d), len(d)+1)
	copy(out, d)
	return append(out, r)
}

// Clone returns a copy that shares no backing array with d.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// Total sums the sales of every row.
func (d Dataset) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range d {
		total = total.Add(r.Sales)
	}
	return total
}

// Equal reports whether both datasets hold the same rows in the same order.
func (d Dataset) Equal(other Dataset) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i].Category != other[i].Category || !d[i].Sales.Equal(other[i].Sales) {
			return false
		}
	}
	return true
}
