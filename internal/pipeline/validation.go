package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// ValidationReport lists human-readable data quality problems in check order.
type ValidationReport []string

// Passed reports whether no problem was found.
func (r ValidationReport) Passed() bool {
	return len(r) == 0
}

// BasicChecks runs the quality checks over a canonical table and accumulates
// every problem instead of stopping at the first one:
//  1. date, partner and amount columns are present (stops here if not);
//  2. no null dates;
//  3. no null and no negative amounts, counted independently;
//  4. no null or blank partners.
//
// Column types are fixed by domain.Record, so date is always date-typed and
// amount always numeric.
func BasicChecks(t domain.Table) ValidationReport {
	var report ValidationReport

	var missing []string
	for _, c := range domain.CanonicalColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return append(report, fmt.Sprintf("missing canonical columns: [%s]", strings.Join(missing, ", ")))
	}

	var nullDates, nullAmounts, negativeAmounts int
	var blankPartner bool
	for _, r := range t.Records {
		if r.Date == nil {
			nullDates++
		}
		if r.Amount == nil {
			nullAmounts++
		} else if *r.Amount < 0 {
			negativeAmounts++
		}
		if r.Partner == nil || strings.TrimSpace(*r.Partner) == "" {
			blankPartner = true
		}
	}

	if nullDates > 0 {
		report = append(report, fmt.Sprintf("'date' contains %d unparseable or null values", nullDates))
	}
	if nullAmounts > 0 {
		report = append(report, fmt.Sprintf("'amount' contains %d null values", nullAmounts))
	}
	if negativeAmounts > 0 {
		report = append(report, fmt.Sprintf("'amount' contains %d negative values", negativeAmounts))
	}
	if blankPartner {
		report = append(report, "'partner' contains empty or null values")
	}

	return report
}
