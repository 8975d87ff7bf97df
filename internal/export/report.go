package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvloznov/partner-warehouse/internal/gcs"
	"github.com/dvloznov/partner-warehouse/internal/gcsuploader"
	"github.com/dvloznov/partner-warehouse/internal/pipeline"
)

// File names written by WriteDir.
const (
	BronzeFile   = "bronze.csv"
	SilverFile   = "silver.csv"
	ReportFile   = "report.txt"
	WorkbookFile = "warehouse.xlsx"
)

// WriteReport renders per-file outcomes, headline figures and validation
// messages as plain text.
func WriteReport(w io.Writer, res *pipeline.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run:     %s\n", res.RunID)
	fmt.Fprintf(&b, "Started: %s\n", res.StartedAt.Format("2006-01-02T15:04:05Z07:00"))

	fmt.Fprintf(&b, "\n=== Files (%d) ===\n", len(res.Files))
	for _, f := range res.Files {
		switch f.Status {
		case pipeline.FileStatusIngested:
			fmt.Fprintf(&b, "- %s: %s, %d rows, %s, delimiter %q, mapping %s\n",
				f.Source, f.Status, f.Rows, f.Encoding, f.Delimiter, f.Mapping)
		default:
			fmt.Fprintf(&b, "- %s: %s: %v\n", f.Source, f.Status, f.Err)
		}
	}

	s := res.Summary
	fmt.Fprintf(&b, "\n=== Bronze ===\n")
	fmt.Fprintf(&b, "Rows:            %d\n", s.Rows)
	fmt.Fprintf(&b, "Unique partners: %d\n", s.UniquePartners)
	fmt.Fprintf(&b, "Total (EUR):     %.2f\n", s.TotalAmount)
	if s.FirstDate != nil && s.LastDate != nil {
		fmt.Fprintf(&b, "Date range:      %s → %s\n", s.FirstDate, s.LastDate)
	} else {
		fmt.Fprintf(&b, "Date range:      n/a\n")
	}

	fmt.Fprintf(&b, "\n=== Validation ===\n")
	switch {
	case res.Bronze.Empty():
		fmt.Fprintf(&b, "No data to validate.\n")
	case res.Report.Passed():
		fmt.Fprintf(&b, "Passed.\n")
	default:
		for _, msg := range res.Report {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}

	if res.Silver != nil {
		fmt.Fprintf(&b, "\n=== Silver (%d rows) ===\n", res.Silver.Len())
		for _, mt := range pipeline.MonthlyTotals(*res.Silver) {
			fmt.Fprintf(&b, "%s  %.2f\n", mt.Month, mt.Amount)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteDir writes bronze.csv, report.txt and, when Silver was derived,
// silver.csv into dir; withXLSX adds warehouse.xlsx. It returns the paths written.
func WriteDir(dir string, res *pipeline.Result, withXLSX bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("WriteDir: create %s: %w", dir, err)
	}

	type artifact struct {
		name  string
		write func(io.Writer) error
	}
	artifacts := []artifact{
		{BronzeFile, func(w io.Writer) error { return WriteBronzeCSV(w, res.Bronze) }},
		{ReportFile, func(w io.Writer) error { return WriteReport(w, res) }},
	}
	if res.Silver != nil {
		artifacts = append(artifacts, artifact{SilverFile, func(w io.Writer) error { return WriteSilverCSV(w, *res.Silver) }})
	}
	if withXLSX {
		artifacts = append(artifacts, artifact{WorkbookFile, func(w io.Writer) error { return WriteXLSX(w, res.Bronze, res.Silver) }})
	}

	var written []string
	for _, a := range artifacts {
		var buf bytes.Buffer
		if err := a.write(&buf); err != nil {
			return written, fmt.Errorf("WriteDir: %s: %w", a.name, err)
		}
		path := filepath.Join(dir, a.name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("WriteDir: %s: %w", a.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Publish uploads the given files to bucket under prefix/runID/ and returns
// the gs:// URIs created.
func Publish(ctx context.Context, storage gcs.StorageService, bucket, prefix, runID string, paths []string) ([]string, error) {
	var uris []string
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return uris, fmt.Errorf("Publish: read %s: %w", p, err)
		}
		object := gcsuploader.ObjectName(prefix, runID, filepath.Base(p))
		if err := storage.UploadBytes(ctx, bucket, object, ContentTypeFor(p), data); err != nil {
			return uris, fmt.Errorf("Publish: upload %s: %w", p, err)
		}
		uris = append(uris, fmt.Sprintf("gs://%s/%s", bucket, object))
	}
	return uris, nil
}

// ContentTypeFor picks the upload content type from a file extension.
func ContentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ContentTypeCSV
	case ".xlsx":
		return ContentTypeXLSX
	default:
		return ContentTypeText
	}
}
