package pipeline

import (
	"time"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// TagLineage stamps every row with the source identifier and a single UTC
// ingestion timestamp taken once per call. The input table is not modified.
func TagLineage(t domain.Table, source string) domain.Table {
	return TagLineageAt(t, source, time.Now())
}

// TagLineageAt is TagLineage with an explicit ingestion time.
func TagLineageAt(t domain.Table, source string, at time.Time) domain.Table {
	ts := at.UTC()

	cols := make([]string, 0, len(t.Columns)+2)
	for _, c := range t.Columns {
		if c != domain.ColumnSourceFile && c != domain.ColumnIngestedAt {
			cols = append(cols, c)
		}
	}
	cols = append(cols, domain.ColumnSourceFile, domain.ColumnIngestedAt)

	records := make([]domain.Record, len(t.Records))
	for i, r := range t.Records {
		r.SourceFile = &source
		r.IngestedAt = &ts
		records[i] = r
	}

	return domain.Table{Columns: cols, Records: records}
}
