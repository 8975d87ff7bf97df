// Package export renders Bronze and Silver tables as CSV, XLSX and a plain
// text run report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Content types used when publishing exports.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeText = "text/plain; charset=utf-8"
)

// WriteBronzeCSV writes the Bronze table with a header row. Dates are
// YYYY-MM-DD, timestamps RFC 3339 in UTC, nulls empty.
func WriteBronzeCSV(w io.Writer, t domain.Table) error {
	return writeCSV(w, domain.BronzeColumns, BronzeRows(t))
}

// WriteSilverCSV writes the Silver table with a header row.
func WriteSilverCSV(w io.Writer, s domain.SilverTable) error {
	return writeCSV(w, domain.SilverColumns, SilverRows(s))
}

// BronzeRows formats Bronze records as text cells in Bronze column order.
func BronzeRows(t domain.Table) [][]string {
	rows := make([][]string, len(t.Records))
	for i, r := range t.Records {
		rows[i] = []string{
			formatDate(r.Date),
			formatString(r.Partner),
			formatAmount(r.Amount),
			formatString(r.SourceFile),
			formatTimestamp(r.IngestedAt),
		}
	}
	return rows
}

// SilverRows formats Silver records as text cells in Silver column order.
func SilverRows(s domain.SilverTable) [][]string {
	rows := make([][]string, len(s.Records))
	for i, r := range s.Records {
		amount := r.Amount
		rows[i] = []string{
			formatString(r.Partner),
			formatDate(r.Month),
			formatAmount(&amount),
		}
	}
	return rows
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writeCSV: header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writeCSV: rows: %w", err)
	}
	return nil
}

func formatDate(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
