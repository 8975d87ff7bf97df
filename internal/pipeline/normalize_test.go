package pipeline

import (
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

func TestNormalizeColumns(t *testing.T) {
	raw := domain.RawTable{
		Columns: []string{"Fecha", "Cliente", "Total €", "Notas"},
		Rows: [][]string{
			{"01/02/2024", "  Acme   Corp ", "100,00", "x"},
			{"garbage", "Beta", "n/a", ""},
		},
	}
	mapping := Mapping{"Fecha": "date", "Cliente": "partner", "Total €": "amount"}

	got, err := NormalizeColumns(raw, mapping)
	if err != nil {
		t.Fatalf("NormalizeColumns failed: %v", err)
	}

	want := domain.Table{
		Columns: []string{"date", "partner", "amount"},
		Records: []domain.Record{
			{
				Date:    &civil.Date{Year: 2024, Month: 2, Day: 1},
				Partner: domain.Ptr("Acme Corp"),
				Amount:  domain.Ptr(100.0),
			},
			{
				Partner: domain.Ptr("Beta"),
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeColumns_PartialMapping(t *testing.T) {
	raw := domain.RawTable{
		Columns: []string{"transaction_date", "Cliente"},
		Rows:    [][]string{{"2024-02-15", "Acme"}},
	}
	got, err := NormalizeColumns(raw, Mapping{"transaction_date": "date", "Cliente": "partner"})
	if err != nil {
		t.Fatalf("NormalizeColumns failed: %v", err)
	}
	if diff := cmp.Diff([]string{"date", "partner"}, got.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if got.Records[0].Amount != nil {
		t.Errorf("amount = %v, want nil", *got.Records[0].Amount)
	}
}

func TestNormalizeColumns_KeepsCanonicalNamedColumn(t *testing.T) {
	raw := domain.RawTable{
		Columns: []string{"Fecha", "amount"},
		Rows:    [][]string{{"2024-01-01", "12.5"}},
	}
	got, err := NormalizeColumns(raw, Mapping{"Fecha": "date"})
	if err != nil {
		t.Fatalf("NormalizeColumns failed: %v", err)
	}
	if !got.Has("amount") {
		t.Fatalf("columns = %v, want amount kept", got.Columns)
	}
	if a := got.Records[0].Amount; a == nil || *a != 12.5 {
		t.Errorf("amount = %v, want 12.5", a)
	}
}

func TestNormalizeColumns_EmptyMapping(t *testing.T) {
	raw := domain.RawTable{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	_, err := NormalizeColumns(raw, Mapping{})
	if !errors.Is(err, ErrEmptyMapping) {
		t.Errorf("err = %v, want ErrEmptyMapping", err)
	}
}

func TestCleanPartner(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme  Corp ", "Acme Corp"},
		{"\tAcme\nCorp", "Acme Corp"},
		{"   ", ""},
		{"Solo", "Solo"},
	}
	for _, tt := range tests {
		if got := CleanPartner(tt.in); got != tt.want {
			t.Errorf("CleanPartner(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
