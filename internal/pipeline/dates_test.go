package pipeline

import (
	"testing"

	"cloud.google.com/go/civil"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want *civil.Date
	}{
		{"2024-02-15", &civil.Date{Year: 2024, Month: 2, Day: 15}},
		{"2024-02-15T10:30:00", &civil.Date{Year: 2024, Month: 2, Day: 15}},
		{"2024-02-15T10:30:00+02:00", &civil.Date{Year: 2024, Month: 2, Day: 15}},
		{"01/02/2024", &civil.Date{Year: 2024, Month: 2, Day: 1}},
		{"3/4/2024", &civil.Date{Year: 2024, Month: 4, Day: 3}},
		{"31-12-2023", &civil.Date{Year: 2023, Month: 12, Day: 31}},
		{"15.03.2024", &civil.Date{Year: 2024, Month: 3, Day: 15}},
		{"12/25/2024", &civil.Date{Year: 2024, Month: 12, Day: 25}},
		{"  2024-01-05  ", &civil.Date{Year: 2024, Month: 1, Day: 5}},
		{"", nil},
		{"not a date", nil},
		{"32/13/2024", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseDate(tt.raw)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseDate(%q) = %s, want nil", tt.raw, got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseDate(%q) = nil, want %s", tt.raw, tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ParseDate(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(civil.Date{Year: 2024, Month: 2, Day: 29})
	want := civil.Date{Year: 2024, Month: 2, Day: 1}
	if got != want {
		t.Errorf("MonthStart = %s, want %s", got, want)
	}
}
