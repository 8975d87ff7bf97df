package pipeline

import (
	"fmt"
	"strings"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// NormalizeColumns renames raw columns per mapping and projects them onto the
// canonical schema [date, partner, amount]. Dates are parsed day-first,
// partners trimmed with internal whitespace collapsed, and amounts run
// through NormalizeAmount. Unparseable dates and amounts become null.
//
// Only canonical columns present after renaming are kept. A raw column that
// already carries a canonical name is kept when no mapping targets that name.
func NormalizeColumns(raw domain.RawTable, mapping Mapping) (domain.Table, error) {
	if len(mapping) == 0 {
		return domain.Table{}, fmt.Errorf("NormalizeColumns: %w", ErrEmptyMapping)
	}

	sources := make(map[string]int, len(domain.CanonicalColumns))
	var cols []string
	for _, canonical := range domain.CanonicalColumns {
		idx := -1
		if src, ok := mapping.SourceFor(canonical); ok {
			idx = raw.ColumnIndex(src)
		} else if _, renamed := mapping[canonical]; !renamed {
			idx = raw.ColumnIndex(canonical)
		}
		if idx < 0 {
			continue
		}
		sources[canonical] = idx
		cols = append(cols, canonical)
	}

	records := make([]domain.Record, len(raw.Rows))
	for i, row := range raw.Rows {
		var rec domain.Record
		if idx, ok := sources[domain.ColumnDate]; ok {
			rec.Date = ParseDate(cell(row, idx))
		}
		if idx, ok := sources[domain.ColumnPartner]; ok {
			rec.Partner = domain.Ptr(CleanPartner(cell(row, idx)))
		}
		if idx, ok := sources[domain.ColumnAmount]; ok {
			rec.Amount = NormalizeAmount(cell(row, idx))
		}
		records[i] = rec
	}

	return domain.Table{Columns: cols, Records: records}, nil
}

// CleanPartner trims s and collapses runs of whitespace to a single space.
func CleanPartner(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
