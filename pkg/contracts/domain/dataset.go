package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotCanonical is returned by NewDataset when the records break one of the
// canonical dataset invariants.
var ErrNotCanonical = errors.New("records are not canonical")

// Dataset is a canonical, read-only snapshot of the sales ledger.
//
// A Dataset can only be obtained from NewDataset, which checks the invariants
// the cleaning pipeline establishes:
//   - no two records are identical across all fields
//   - product is never empty
//   - quantity sold and unit price are never negative
//   - unit price never exceeds the configured ceiling
//
// Aggregation queries accept *Dataset rather than raw rows, so they can not be
// run on input that skipped cleaning. Records are copied in and out; a Dataset
// is safe for concurrent readers.
type Dataset struct {
	records      []SalesRecord
	priceCeiling decimal.Decimal
}

// NewDataset validates records against the canonical invariants and wraps them.
// The slice is copied; the caller keeps ownership of its argument.
func NewDataset(records []SalesRecord, priceCeiling decimal.Decimal) (*Dataset, error) {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Product) == "" {
			return nil, fmt.Errorf("%w: record %d has no product", ErrNotCanonical, i)
		}
		if r.QuantitySold < 0 {
			return nil, fmt.Errorf("%w: record %d has negative quantity %d", ErrNotCanonical, i, r.QuantitySold)
		}
		if r.QuantitySold > MaxQuantity {
			return nil, fmt.Errorf("%w: record %d quantity %d exceeds %d", ErrNotCanonical, i, r.QuantitySold, MaxQuantity)
		}
		if r.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: record %d has negative unit price %s", ErrNotCanonical, i, r.UnitPrice)
		}
		if r.UnitPrice.GreaterThan(priceCeiling) {
			return nil, fmt.Errorf("%w: record %d unit price %s exceeds ceiling %s",
				ErrNotCanonical, i, r.UnitPrice, priceCeiling)
		}
		key := r.Key()
		if first, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: record %d duplicates record %d", ErrNotCanonical, i, first)
		}
		seen[key] = i
	}

	owned := make([]SalesRecord, len(records))
	copy(owned, records)
	return &Dataset{records: owned, priceCeiling: priceCeiling}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in their cleaned order.
func (d *Dataset) Records() []SalesRecord {
	if d == nil {
		return nil
	}
	out := make([]SalesRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in order without copying the slice.
func (d *Dataset) Each(fn func(SalesRecord)) {
	if d == nil {
		return
	}
	for _, r := range d.records {
		fn(r)
	}
}

// PriceCeiling returns the unit price ceiling the dataset was validated against.
func (d *Dataset) PriceCeiling() decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.priceCeiling
}

// TotalRevenue sums the stored revenue of every record.
func (d *Dataset) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	d.Each(func(r SalesRecord) {
		total = total.Add(r.Revenue)
	})
	return total
}

// TotalQuantity sums the quantity sold of every record.
func (d *Dataset) TotalQuantity() int64 {
	var total int64
	d.Each(func(r SalesRecord) {
		total += r.QuantitySold
	})
	return total
}
