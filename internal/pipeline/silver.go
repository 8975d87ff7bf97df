package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

type silverKey struct {
	hasPartner bool
	partner    string
	hasMonth   bool
	month      civil.Date
}

// ToSilver sums amounts per partner and calendar month. Rows with a null
// partner or null date form their own groups. Null amounts are left out of
// the sum, so a group with no amounts sums to 0. Output is ordered by
// partner, then month, with nulls last.
//
// The table must have been validated first: missing canonical columns
// return ErrPrecondition.
func ToSilver(t domain.Table) (domain.SilverTable, error) {
	var missing []string
	for _, c := range domain.CanonicalColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return domain.SilverTable{}, fmt.Errorf("ToSilver: missing columns %s: %w", strings.Join(missing, ", "), ErrPrecondition)
	}

	sums := make(map[silverKey]decimal.Decimal)
	var keys []silverKey
	for _, r := range t.Records {
		var k silverKey
		if r.Partner != nil {
			k.hasPartner, k.partner = true, *r.Partner
		}
		if r.Date != nil {
			k.hasMonth, k.month = true, MonthStart(*r.Date)
		}

		sum, seen := sums[k]
		if !seen {
			keys = append(keys, k)
		}
		// decimal cannot represent NaN or ±Inf; they are treated like nulls.
		if r.Amount != nil && !math.IsNaN(*r.Amount) && !math.IsInf(*r.Amount, 0) {
			sum = sum.Add(decimal.NewFromFloat(*r.Amount))
		}
		sums[k] = sum
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.hasPartner != b.hasPartner {
			return a.hasPartner
		}
		if a.partner != b.partner {
			return a.partner < b.partner
		}
		if a.hasMonth != b.hasMonth {
			return a.hasMonth
		}
		return a.month.Before(b.month)
	})

	records := make([]domain.SilverRecord, 0, len(keys))
	for _, k := range keys {
		rec := domain.SilverRecord{Amount: sums[k].InexactFloat64()}
		if k.hasPartner {
			rec.Partner = domain.Ptr(k.partner)
		}
		if k.hasMonth {
			rec.Month = domain.Ptr(k.month)
		}
		records = append(records, rec)
	}

	return domain.SilverTable{Records: records}, nil
}
