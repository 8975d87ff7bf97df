package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCandidates(t *testing.T) {
	got := ParseCandidates(" Fecha, transaction_date ,, ")
	want := []string{"Fecha", "transaction_date"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseCandidates mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFirstMatch(t *testing.T) {
	tests := []struct {
		name       string
		columns    []string
		candidates []string
		want       string
		wantOK     bool
	}{
		{
			name:       "second candidate matches",
			columns:    []string{"transaction_date", "Cliente"},
			candidates: ParseCandidates("Fecha, transaction_date"),
			want:       "transaction_date",
			wantOK:     true,
		},
		{
			name:       "case and whitespace insensitive",
			columns:    []string{" FECHA ", "Total"},
			candidates: []string{"fecha"},
			want:       " FECHA ",
			wantOK:     true,
		},
		{
			name:       "earliest candidate wins over column order",
			columns:    []string{"transaction_date", "Fecha"},
			candidates: []string{"Fecha", "transaction_date"},
			want:       "Fecha",
			wantOK:     true,
		},
		{
			name:       "last column wins on equal keys",
			columns:    []string{"Date", "Amount", "date "},
			candidates: []string{"DATE"},
			want:       "date ",
			wantOK:     true,
		},
		{
			name:       "no match",
			columns:    []string{"foo"},
			candidates: []string{"bar"},
		},
		{
			name:       "no candidates",
			columns:    []string{"foo"},
			candidates: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindFirstMatch(tt.columns, tt.candidates)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FindFirstMatch = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBuildMapping(t *testing.T) {
	synonyms := Synonyms{
		"date":    ParseCandidates("Fecha, transaction_date"),
		"partner": ParseCandidates("Cliente, vendor_name"),
		"amount":  ParseCandidates("Total €, amount_eur"),
	}

	tests := []struct {
		name    string
		columns []string
		want    Mapping
	}{
		{
			name:    "all columns resolved",
			columns: []string{"Fecha", "Cliente", "Total €", "Notas"},
			want:    Mapping{"Fecha": "date", "Cliente": "partner", "Total €": "amount"},
		},
		{
			name:    "partial match",
			columns: []string{"transaction_date", "Cliente"},
			want:    Mapping{"transaction_date": "date", "Cliente": "partner"},
		},
		{
			name:    "nothing matches",
			columns: []string{"a", "b"},
			want:    Mapping{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildMapping(tt.columns, synonyms)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildMapping mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildMapping_SourceClaimedOnce(t *testing.T) {
	synonyms := Synonyms{
		"date":    {"when"},
		"partner": {"when"},
	}
	got := BuildMapping([]string{"when"}, synonyms)
	want := Mapping{"when": "date"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildMapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMappingString(t *testing.T) {
	m := Mapping{"Total €": "amount", "Fecha": "date"}
	if got, want := m.String(), "Fecha→date, Total €→amount"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
