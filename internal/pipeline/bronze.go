package pipeline

import (
	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// ConcatBronze concatenates tagged tables into one Bronze table with the
// fixed column order [date, partner, amount, source_file, ingested_at].
// Columns missing from a table are null for its rows. Row order follows
// the order of the tables, then each table's own order. No input yields an
// empty table that still carries the Bronze columns.
func ConcatBronze(tables ...domain.Table) domain.Table {
	total := 0
	for _, t := range tables {
		total += t.Len()
	}

	records := make([]domain.Record, 0, total)
	for _, t := range tables {
		records = append(records, t.Select(domain.BronzeColumns...).Records...)
	}

	cols := make([]string, len(domain.BronzeColumns))
	copy(cols, domain.BronzeColumns)

	return domain.Table{Columns: cols, Records: records}
}
