package cleaning

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "salesinsight/internal/errors"
	"salesinsight/pkg/contracts/domain"
)

// Canonicalize converts a cleaned table into the canonical dataset.
//
// Every ledger column must be present. Quantity and price must be numeric;
// a table that skipped coercion and imputation fails here instead of reaching
// the queries. A missing revenue reads as zero. Columns outside the ledger are
// ignored, and rows that only differ in them collapse into the first one.
func Canonicalize(t *Table, priceCeiling decimal.Decimal) (*domain.Dataset, error) {
	if t == nil {
		t = &Table{}
	}
	cols := make(map[string]int, len(domain.LedgerColumns))
	for _, label := range domain.LedgerColumns {
		idx := t.ColumnIndex(label)
		if idx < 0 {
			return nil, apperrors.NewAppValidationError(fmt.Sprintf("missing column %q", label)).
				WithContext("columns", t.Columns)
		}
		cols[label] = idx
	}

	records := make([]domain.SalesRecord, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for i, r := range t.Rows {
		rec := domain.SalesRecord{
			Product:  r.at(cols[domain.LabelProduct]).String(),
			Category: r.at(cols[domain.LabelCategory]).String(),
			Region:   r.at(cols[domain.LabelRegion]).String(),
			Revenue:  decimal.Zero,
		}

		if d, ok := r.at(cols[domain.LabelSaleDate]).AsDate(); ok {
			rec.SaleDate = domain.NewSaleDate(d)
		} else {
			rec.SaleDate = domain.UnknownSaleDate()
		}

		qty, ok := r.at(cols[domain.LabelQuantitySold]).AsInteger()
		if !ok {
			return nil, rowError(i, domain.LabelQuantitySold, r.at(cols[domain.LabelQuantitySold]))
		}
		rec.QuantitySold = qty

		price, ok := r.at(cols[domain.LabelUnitPrice]).AsDecimal()
		if !ok {
			return nil, rowError(i, domain.LabelUnitPrice, r.at(cols[domain.LabelUnitPrice]))
		}
		rec.UnitPrice = price

		if rev, ok := r.at(cols[domain.LabelRevenue]).AsDecimal(); ok {
			rec.Revenue = rev
		}

		key := rec.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		records = append(records, rec)
	}

	ds, err := domain.NewDataset(records, priceCeiling)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "dataset is not canonical", err)
	}
	return ds, nil
}

func rowError(row int, column string, v Value) error {
	return apperrors.NewAppValidationError(fmt.Sprintf("row %d: column %q holds %s, want a number", row, column, v.Kind())).
		WithContext("row", row).
		WithContext("column", column)
}
