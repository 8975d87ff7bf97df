package csvio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

func TestReadFile(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		encoding  string
		delimiter rune
		want      domain.RawTable
	}{
		{
			name:      "utf-8 comma",
			data:      []byte("Fecha,Cliente,Total €\n2024-01-01,Acme,10\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want: domain.RawTable{
				Columns: []string{"Fecha", "Cliente", "Total €"},
				Rows:    [][]string{{"2024-01-01", "Acme", "10"}},
			},
		},
		{
			name:      "byte order mark stripped",
			data:      []byte("\xEF\xBB\xBFFecha,Total\r\n01/02/2024,5\r\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want: domain.RawTable{
				Columns: []string{"Fecha", "Total"},
				Rows:    [][]string{{"01/02/2024", "5"}},
			},
		},
		{
			name:      "latin-1 semicolon",
			data:      []byte("Fecha;Cliente;Total\n01/02/2024;Pe\xf1a S.L.;1.234,56\n"),
			encoding:  EncodingLatin1,
			delimiter: ';',
			want: domain.RawTable{
				Columns: []string{"Fecha", "Cliente", "Total"},
				Rows:    [][]string{{"01/02/2024", "Peña S.L.", "1.234,56"}},
			},
		},
		{
			name:      "quoted comma inside semicolon file",
			data:      []byte("name;amount\n\"Smith, J\";1,50\n"),
			encoding:  EncodingUTF8,
			delimiter: ';',
			want: domain.RawTable{
				Columns: []string{"name", "amount"},
				Rows:    [][]string{{"Smith, J", "1,50"}},
			},
		},
		{
			name:      "tab separated",
			data:      []byte("a\tb\n1\t2\n"),
			encoding:  EncodingUTF8,
			delimiter: '\t',
			want: domain.RawTable{
				Columns: []string{"a", "b"},
				Rows:    [][]string{{"1", "2"}},
			},
		},
		{
			name:      "short rows padded",
			data:      []byte("a,b,c\n1,2\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want: domain.RawTable{
				Columns: []string{"a", "b", "c"},
				Rows:    [][]string{{"1", "2", ""}},
			},
		},
		{
			name:      "trailing empty columns from a spreadsheet export",
			data:      []byte("Fecha,Cliente,Total,,\n01/02/2024,Acme,10,,\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want: domain.RawTable{
				Columns: []string{"Fecha", "Cliente", "Total", "Unnamed: 3", "Unnamed: 4"},
				Rows:    [][]string{{"01/02/2024", "Acme", "10", "", ""}},
			},
		},
		{
			name:      "repeated header names",
			data:      []byte("Total,Cliente,Total\n1,Acme,2\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want: domain.RawTable{
				Columns: []string{"Total", "Cliente", "Total.1"},
				Rows:    [][]string{{"1", "Acme", "2"}},
			},
		},
		{
			name:      "header only",
			data:      []byte("a,b\n"),
			encoding:  EncodingUTF8,
			delimiter: ',',
			want:      domain.RawTable{Columns: []string{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.data)
			if err != nil {
				t.Fatalf("ReadFile failed: %v", err)
			}
			if got.Encoding != tt.encoding {
				t.Errorf("Encoding = %q, want %q", got.Encoding, tt.encoding)
			}
			if got.Delimiter != tt.delimiter {
				t.Errorf("Delimiter = %q, want %q", got.Delimiter, tt.delimiter)
			}
			if diff := cmp.Diff(tt.want, got.Table); diff != "" {
				t.Errorf("Table mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrEmptyInput},
		{"whitespace only", []byte(" \n\n"), ErrEmptyInput},
		{"bom only", []byte("\xEF\xBB\xBF"), ErrEmptyInput},
		{"too many fields", []byte("a,b\n1,2,3\n"), ErrTooManyFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon with decimal commas", "a;b\n1,5;2,5\n3,5;4,5\n", ';'},
		{"pipe", "a|b\n1|2\n", '|'},
		{"single column falls back to comma", "only\n1\n", ','},
		{"empty falls back to comma", "", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SniffDelimiter(tt.text); got != tt.want {
				t.Errorf("SniffDelimiter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"already unique", []string{"a", "b"}, []string{"a", "b"}},
		{"blank names", []string{"a", "", " "}, []string{"a", "Unnamed: 1", "Unnamed: 2"}},
		{"repeats", []string{"x", "x", "x"}, []string{"x", "x.1", "x.2"}},
		{"suffix already present", []string{"a", "a", "a.1"}, []string{"a", "a.2", "a.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, UniqueHeader(tt.header)); diff != "" {
				t.Errorf("UniqueHeader mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
