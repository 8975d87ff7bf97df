package gcsuploader

import (
	"testing"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://bucket/in/jan.csv", "bucket", "in/jan.csv", false},
		{"gs://bucket/jan.csv", "bucket", "jan.csv", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"s3://bucket/jan.csv", "", "", true},
		{"data/jan.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/folder/partners.csv", "partners.csv"},
		{"gs://bucket/partners.csv", "partners.csv"},
		{"gs://bucket", "bucket"},
	}
	for _, tt := range tests {
		if got := ExtractFilenameFromGCSURI(tt.uri); got != tt.want {
			t.Errorf("ExtractFilenameFromGCSURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		prefix, runID, name string
		want                string
	}{
		{"exports", "run-1", "bronze.csv", "exports/run-1/bronze.csv"},
		{"/exports/", "run-1", "silver.csv", "exports/run-1/silver.csv"},
		{"", "run-1", "report.txt", "run-1/report.txt"},
		{"a/b", "r", "warehouse.xlsx", "a/b/r/warehouse.xlsx"},
	}
	for _, tt := range tests {
		if got := ObjectName(tt.prefix, tt.runID, tt.name); got != tt.want {
			t.Errorf("ObjectName(%q, %q, %q) = %q, want %q", tt.prefix, tt.runID, tt.name, got, tt.want)
		}
	}
}

func TestIsGCSURI(t *testing.T) {
	if !IsGCSURI("gs://b/o") {
		t.Error("IsGCSURI(gs://b/o) = false")
	}
	if IsGCSURI("/tmp/gs://b") {
		t.Error("IsGCSURI(/tmp/gs://b) = true")
	}
}
