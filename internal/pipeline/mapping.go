package pipeline

import (
	"strings"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Mapping maps a source column name to a canonical column name.
type Mapping map[string]string

// SourceFor returns the source column mapped onto the canonical column.
func (m Mapping) SourceFor(canonical string) (string, bool) {
	for src, dst := range m {
		if dst == canonical {
			return src, true
		}
	}
	return "", false
}

// String renders the mapping in canonical column order, e.g. "Fecha→date, Cliente→partner".
func (m Mapping) String() string {
	parts := make([]string, 0, len(m))
	for _, canonical := range domain.CanonicalColumns {
		if src, ok := m.SourceFor(canonical); ok {
			parts = append(parts, src+"→"+canonical)
		}
	}
	return strings.Join(parts, ", ")
}

// Synonyms holds, per canonical column, the candidate source column names in priority order.
type Synonyms map[string][]string

// ParseCandidates splits a comma-separated synonym list, e.g. "Fecha, transaction_date".
// Blank entries are dropped.
func ParseCandidates(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FindFirstMatch returns the actual column matching the earliest candidate,
// comparing case-insensitively after trimming. When several columns share a
// key, the last one wins.
func FindFirstMatch(columns []string, candidates []string) (string, bool) {
	byKey := make(map[string]string, len(columns))
	for _, c := range columns {
		byKey[matchKey(c)] = c
	}

	for _, cand := range candidates {
		if col, ok := byKey[matchKey(cand)]; ok {
			return col, true
		}
	}
	return "", false
}

// BuildMapping resolves the synonyms against a table's columns. Canonical
// columns without a match are omitted; a source column claimed by an earlier
// canonical column is not reassigned. An empty result means the file is unusable.
func BuildMapping(columns []string, synonyms Synonyms) Mapping {
	mapping := make(Mapping)
	for _, target := range domain.CanonicalColumns {
		match, ok := FindFirstMatch(columns, synonyms[target])
		if !ok {
			continue
		}
		if _, taken := mapping[match]; taken {
			continue
		}
		mapping[match] = target
	}
	return mapping
}

func matchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
