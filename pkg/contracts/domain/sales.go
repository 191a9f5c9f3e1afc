package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field labels of the sales ledger. These are the exact header names of the
// semicolon separated source file and the column labels of every result table.
const (
	LabelSaleDate     = "Data da Venda"
	LabelProduct      = "Produto"
	LabelCategory     = "Categoria"
	LabelQuantitySold = "Quantidade Vendida"
	LabelUnitPrice    = "Preço por Unidade"
	LabelRegion       = "Região de Venda"
	LabelRevenue      = "Receita"
)

// LedgerColumns lists the ledger columns in their canonical order.
var LedgerColumns = []string{
	LabelSaleDate,
	LabelProduct,
	LabelCategory,
	LabelQuantitySold,
	LabelUnitPrice,
	LabelRegion,
	LabelRevenue,
}

// DateLayout is the on-disk layout of a known sale date.
const DateLayout = "2006-01-02"

// MaxQuantity is the largest quantity a single record may carry. Larger
// source values are malformed. The bound keeps int64 quantity sums exact for
// any ledger of up to nine billion rows.
const MaxQuantity int64 = 1_000_000_000

// SaleDate is the calendar date of a sale, or the explicit "unknown date"
// marker produced when the source value could not be parsed.
//
// The zero value is the unknown marker. Month and year are derived on demand
// and never stored next to the date, so they can not drift from it.
type SaleDate struct {
	t     time.Time
	known bool
}

// NewSaleDate returns a known sale date. The time of day and location are
// discarded; two sales on the same calendar day compare equal.
func NewSaleDate(t time.Time) SaleDate {
	y, m, d := t.Date()
	return SaleDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), known: true}
}

// UnknownSaleDate returns the marker for an unparsable or absent date.
func UnknownSaleDate() SaleDate {
	return SaleDate{}
}

// Known reports whether the date was parsed successfully.
func (d SaleDate) Known() bool { return d.known }

// Time returns the date at midnight UTC. It is the zero time for unknown dates.
func (d SaleDate) Time() time.Time { return d.t }

// Period returns the (year, month) the sale belongs to. ok is false for the
// unknown marker, which belongs to no period.
func (d SaleDate) Period() (p Period, ok bool) {
	if !d.known {
		return Period{}, false
	}
	return Period{Year: d.t.Year(), Month: d.t.Month()}, true
}

// Month returns the month of a known date, or 0.
func (d SaleDate) Month() time.Month {
	if !d.known {
		return 0
	}
	return d.t.Month()
}

// Year returns the year of a known date, or 0.
func (d SaleDate) Year() int {
	if !d.known {
		return 0
	}
	return d.t.Year()
}

// Equal reports whether both dates are the same day, or both unknown.
func (d SaleDate) Equal(o SaleDate) bool {
	if d.known != o.known {
		return false
	}
	return !d.known || d.t.Equal(o.t)
}

// String formats the date as 2006-01-02. The unknown marker formats as "".
func (d SaleDate) String() string {
	if !d.known {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes known dates as "2006-01-02" and the unknown marker as null.
func (d SaleDate) MarshalJSON() ([]byte, error) {
	if !d.known {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// Period is a (year, month) pair. It is the grouping key of the monthly queries.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Label renders the period for output, e.g. "Jan 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", MonthAbbr(p.Month), p.Year)
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// MonthAbbr returns the three letter English abbreviation of a month ("Jan").
func MonthAbbr(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return m.String()[:3]
}

// SalesRecord is one canonical row of the sales ledger.
//
// Revenue is stored as it was recorded at sale time (quantity x unit price)
// and is never recomputed from the other fields.
type SalesRecord struct {
	SaleDate     SaleDate        `json:"sale_date"`
	Product      string          `json:"product"`
	Category     string          `json:"category"`
	QuantitySold int64           `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Region       string          `json:"region"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// Key returns a string that is equal for two records exactly when every field
// is equal. Decimals are compared by value, so 100 and 100.00 match.
func (r SalesRecord) Key() string {
	var b strings.Builder
	b.WriteString(r.SaleDate.String())
	if !r.SaleDate.Known() {
		b.WriteString("?")
	}
	for _, part := range []string{
		r.Product,
		r.Category,
		fmt.Sprintf("%d", r.QuantitySold),
		r.UnitPrice.String(),
		r.Region,
		r.Revenue.String(),
	} {
		b.WriteByte('\x1f')
		b.WriteString(part)
	}
	return b.String()
}

// Equal reports whether two records are identical across all fields.
func (r SalesRecord) Equal(o SalesRecord) bool {
	return r.Key() == o.Key()
}
