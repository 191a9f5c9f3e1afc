// Package printer renders cleaning results and reports on the terminal.
package printer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"salesinsight/internal/analytics"
	"salesinsight/internal/cleaning"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Printer writes human readable output. Color follows the fatih/color
// defaults, so NO_COLOR and non-terminal outputs print plain text.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a printer on the given writers. Nil writers select stdout and
// stderr.
func New(out, errOut io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut}
}

// Success prints a success message in green with a checkmark prefix
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.out, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a step of a multi-step command
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with an optional explanation to the error
// writer and returns an error carrying only the title
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	red.Fprintf(p.err, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(p.err, "%s\n", explanation)
	}
	if len(suggestions) > 0 {
		fmt.Fprintf(p.err, "\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

// Head prints the first n rows of a table. n <= 0 prints nothing.
func (p *Printer) Head(t *cleaning.Table, n int) {
	if n <= 0 || t == nil {
		return
	}
	if n > t.Len() {
		n = t.Len()
	}

	rows := make([][]string, 0, n)
	for _, r := range t.Rows[:n] {
		cells := make([]string, len(t.Columns))
		for c := range cells {
			if c < len(r) {
				cells[c] = r[c].String()
			}
		}
		rows = append(rows, cells)
	}
	p.grid(t.Columns, rows)
}

// Missing prints per-column counts of filled values, largest first
func (p *Printer) Missing(title string, report cleaning.MissingReport) {
	bold.Fprintf(p.out, "%s\n", title)
	if report.Total() == 0 {
		fmt.Fprintf(p.out, "  none\n")
		return
	}

	cols := make([]string, 0, len(report))
	for c, n := range report {
		if n > 0 {
			cols = append(cols, c)
		}
	}
	sort.Slice(cols, func(i, j int) bool {
		if report[cols[i]] != report[cols[j]] {
			return report[cols[i]] > report[cols[j]]
		}
		return cols[i] < cols[j]
	})
	for _, c := range cols {
		fmt.Fprintf(p.out, "  %s: %d\n", c, report[c])
	}
}

// Table prints one result table under its name
func (p *Printer) Table(t analytics.ResultTable) {
	bold.Fprintf(p.out, "\n%s\n", t.Name)
	if t.Len() == 0 {
		yellow.Fprintf(p.out, "  (no rows)\n")
		return
	}

	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]string, len(t.Columns))
		for c := range cells {
			if c < len(r) {
				cells[c] = cellText(r[c])
			}
		}
		rows[i] = cells
	}
	p.grid(t.Columns, rows)
}

// Report prints the headline numbers and every table of a report
func (p *Printer) Report(r *analytics.Report) {
	bold.Fprintf(p.out, "Report %s\n", r.RunID)
	fmt.Fprintf(p.out, "  records: %d (dated %d), periods: %d\n", r.Records, r.DatedRecords, r.Periods)
	if r.PeakMonth != nil {
		green.Fprintf(p.out, "  peak month: %s (%d units)\n", r.PeakMonth.Period.Label(), r.PeakMonth.Quantity)
	}
	for _, t := range r.Tables() {
		p.Table(t)
	}
}

func (p *Printer) grid(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return c.StringFixed(2)
	case analytics.GrowthRate:
		if !c.Defined() {
			return "n/a"
		}
		return c.String()
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}
