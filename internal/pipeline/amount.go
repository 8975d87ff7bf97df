package pipeline

import (
	"strconv"
	"strings"
)

// NormalizeAmount parses a monetary string written with EU or US separators.
//
// It is a heuristic, not the inverse of any single locale:
//   - every character other than digits, ',', '.' and '-' is dropped (currency symbols, spaces);
//   - with both separators present, whichever occurs last is the decimal separator
//     and the other one is removed as a thousands separator;
//   - a lone ',' is a decimal separator, so "1,234" parses as 1.234;
//   - a lone '.' or plain digits are parsed as-is.
//
// It returns nil when the cleaned text is not a number.
//
// Examples:
//
//	NormalizeAmount("1,234.56")   -> 1234.56
//	NormalizeAmount("1.234,56")   -> 1234.56
//	NormalizeAmount("€ 1.234,56") -> 1234.56
//	NormalizeAmount("n/a")        -> nil
func NormalizeAmount(raw string) *float64 {
	t := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	lastDot := strings.LastIndexByte(t, '.')
	lastComma := strings.LastIndexByte(t, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			t = strings.ReplaceAll(t, ",", "")
		} else {
			t = strings.ReplaceAll(t, ".", "")
			t = strings.ReplaceAll(t, ",", ".")
		}
	case lastComma >= 0:
		t = strings.ReplaceAll(t, ",", ".")
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizeAmounts applies NormalizeAmount element-wise.
func NormalizeAmounts(values []string) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = NormalizeAmount(v)
	}
	return out
}
