// Package csvio turns uploaded CSV bytes into raw tables: it detects the text
// encoding, infers the delimiter and parses the header and rows.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/dvloznov/partner-warehouse/internal/domain"
)

// Encodings reported by Decode.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// Read errors.
var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrNoHeader      = errors.New("no header row")
	ErrTooManyFields = errors.New("row has more fields than the header")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are considered by SniffDelimiter, in tie-break order.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

const sniffLines = 20

// File is a decoded CSV file together with what was detected about it.
type File struct {
	Encoding  string
	Delimiter rune
	Table     domain.RawTable
}

// ReadFile decodes data, infers its delimiter and parses it.
func ReadFile(data []byte) (*File, error) {
	text, enc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: decoding: %w", err)
	}

	delim := SniffDelimiter(text)

	table, err := ReadRaw(text, delim)
	if err != nil {
		return nil, fmt.Errorf("ReadFile: parsing with delimiter %q: %w", delim, err)
	}

	return &File{Encoding: enc, Delimiter: delim, Table: table}, nil
}

// Decode returns data as text. Valid UTF-8 (with or without BOM) is used
// as-is; anything else is decoded as ISO-8859-1.
func Decode(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return "", "", ErrEmptyInput
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("Decode: latin-1: %w", err)
	}
	return string(decoded), EncodingLatin1, nil
}

// SniffDelimiter picks the delimiter that appears in the header and splits
// the first lines into the most consistent number of fields. It falls back
// to a comma.
func SniffDelimiter(text string) rune {
	lines := sampleLines(text, sniffLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestScore := ',', 0
	for _, d := range candidateDelimiters {
		headerFields := strings.Count(lines[0], string(d)) + 1
		if headerFields < 2 {
			continue
		}

		r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		r.Comma = d
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		score := 0
		for {
			rec, err := r.Read()
			if err != nil {
				break
			}
			if len(rec) == headerFields {
				score++
			}
		}
		// Prefer more consistent rows, then more columns.
		score = score*100 + headerFields
		if score > bestScore {
			best, bestScore = d, score
		}
	}

	return best
}

// ReadRaw parses text with the given delimiter. The first non-blank line is
// the header, made unique with UniqueHeader. Short rows are padded with
// empty cells.
func ReadRaw(text string, delimiter rune) (domain.RawTable, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RawTable{}, ErrEmptyInput
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return domain.RawTable{}, ErrNoHeader
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("ReadRaw: header: %w", err)
	}

	table := domain.RawTable{Columns: UniqueHeader(header)}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("ReadRaw: %w", err)
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return domain.RawTable{}, fmt.Errorf("ReadRaw: line %d: %w (%d > %d)", line, ErrTooManyFields, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		table.Rows = append(table.Rows, rec)
	}

	return table, nil
}

// UniqueHeader names blank columns "Unnamed: <i>" and suffixes repeated
// names with ".1", ".2", ... The first occurrence keeps its name.
func UniqueHeader(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = h
		taken[h] = true
	}

	seen := make(map[string]int, len(header))
	for i, h := range out {
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}

func sampleLines(text string, n int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
