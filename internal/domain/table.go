package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Canonical column names shared by every layer.
const (
	ColumnDate       = "date"
	ColumnPartner    = "partner"
	ColumnAmount     = "amount"
	ColumnSourceFile = "source_file"
	ColumnIngestedAt = "ingested_at"
	ColumnMonth      = "month"
)

// CanonicalColumns is the normalized schema in output order.
var CanonicalColumns = []string{ColumnDate, ColumnPartner, ColumnAmount}

// BronzeColumns is the fixed column order of a Bronze table.
var BronzeColumns = []string{ColumnDate, ColumnPartner, ColumnAmount, ColumnSourceFile, ColumnIngestedAt}

// SilverColumns is the column order of a Silver table.
var SilverColumns = []string{ColumnPartner, ColumnMonth, ColumnAmount}

// RawTable is a table exactly as read from a source file.
// Columns holds the header; every row has len(Columns) cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Record is one row of a normalized or Bronze table. A nil field is a null cell.
type Record struct {
	Date       *civil.Date // calendar date, timezone-naive
	Partner    *string     // trimmed, internal whitespace collapsed
	Amount     *float64    // EUR
	SourceFile *string     // lineage: originating file
	IngestedAt *time.Time  // lineage: UTC ingestion timestamp
}

// Table is an ordered set of records plus the columns that are present.
// Fields of a Record whose column is not listed in Columns are always nil.
type Table struct {
	Columns []string
	Records []Record
}

// Has reports whether the named column is present.
func (t Table) Has(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Records)
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Records) == 0
}

// Select projects the table onto the requested columns, in the requested
// order. Requested columns that are absent are ignored.
func (t Table) Select(names ...string) Table {
	cols := make([]string, 0, len(names))
	for _, n := range names {
		if t.Has(n) {
			cols = append(cols, n)
		}
	}

	keep := make(map[string]bool, len(cols))
	for _, c := range cols {
		keep[c] = true
	}

	records := make([]Record, len(t.Records))
	for i, r := range t.Records {
		var out Record
		if keep[ColumnDate] {
			out.Date = r.Date
		}
		if keep[ColumnPartner] {
			out.Partner = r.Partner
		}
		if keep[ColumnAmount] {
			out.Amount = r.Amount
		}
		if keep[ColumnSourceFile] {
			out.SourceFile = r.SourceFile
		}
		if keep[ColumnIngestedAt] {
			out.IngestedAt = r.IngestedAt
		}
		records[i] = out
	}

	return Table{Columns: cols, Records: records}
}

// SilverRecord is the aggregated amount for one partner in one month.
type SilverRecord struct {
	Partner *string
	Month   *civil.Date // first day of the month
	Amount  float64
}

// SilverTable holds Silver records ordered by partner, then month.
type SilverTable struct {
	Records []SilverRecord
}

// Len returns the number of rows.
func (s SilverTable) Len() int {
	return len(s.Records)
}

// AsCanonical views the Silver table as a canonical table, with month as the
// date and the pre-summed amount. Aggregating the result again reproduces s.
func (s SilverTable) AsCanonical() Table {
	records := make([]Record, len(s.Records))
	for i, r := range s.Records {
		amount := r.Amount
		records[i] = Record{Date: r.Month, Partner: r.Partner, Amount: &amount}
	}
	cols := make([]string, len(CanonicalColumns))
	copy(cols, CanonicalColumns)
	return Table{Columns: cols, Records: records}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
