package pipeline

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Summary holds headline figures for a Bronze table.
type Summary struct {
	Rows           int
	UniquePartners int
	TotalAmount    float64     // sum of non-null amounts, EUR
	FirstDate      *civil.Date // nil when no row has a date
	LastDate       *civil.Date
}

// MonthTotal is the amount across all partners for one month.
type MonthTotal struct {
	Month  civil.Date
	Amount float64
}

// Summarize computes row count, distinct partners, total amount and date range.
func Summarize(t domain.Table) Summary {
	s := Summary{Rows: t.Len()}

	partners := make(map[string]struct{})
	total := decimal.Zero
	for _, r := range t.Records {
		if r.Partner != nil {
			partners[*r.Partner] = struct{}{}
		}
		if r.Amount != nil && !math.IsNaN(*r.Amount) && !math.IsInf(*r.Amount, 0) {
			total = total.Add(decimal.NewFromFloat(*r.Amount))
		}
		if r.Date != nil {
			d := *r.Date
			if s.FirstDate == nil || d.Before(*s.FirstDate) {
				s.FirstDate = &d
			}
			if s.LastDate == nil || d.After(*s.LastDate) {
				s.LastDate = &d
			}
		}
	}

	s.UniquePartners = len(partners)
	s.TotalAmount = total.InexactFloat64()
	return s
}

// MonthlyTotals sums Silver amounts per month across partners, in month order.
// Rows without a month are skipped.
func MonthlyTotals(silver domain.SilverTable) []MonthTotal {
	sums := make(map[civil.Date]decimal.Decimal)
	for _, r := range silver.Records {
		if r.Month == nil {
			continue
		}
		sums[*r.Month] = sums[*r.Month].Add(decimal.NewFromFloat(r.Amount))
	}

	out := make([]MonthTotal, 0, len(sums))
	for m, sum := range sums {
		out = append(out, MonthTotal{Month: m, Amount: sum.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}
