package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvloznov/partner-warehouse/internal/gcs"
	"github.com/dvloznov/partner-warehouse/internal/gcsuploader"
)

// SourceFetcher loads the bytes of an input file.
// This interface enables mocking of file and cloud storage access.
type SourceFetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// LocalFetcher reads files from the local filesystem.
type LocalFetcher struct{}

// Fetch reads the whole file at location.
func (LocalFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("LocalFetcher: %w", err)
	}
	return data, nil
}

// StorageFetcher routes gs:// URIs to cloud storage and everything else to
// the local filesystem.
type StorageFetcher struct {
	Storage gcs.StorageService
	Local   SourceFetcher
}

// NewStorageFetcher creates a fetcher backed by the given storage service.
// A nil storage disables gs:// inputs.
func NewStorageFetcher(storage gcs.StorageService) *StorageFetcher {
	return &StorageFetcher{Storage: storage, Local: LocalFetcher{}}
}

// Fetch implements SourceFetcher.
func (f *StorageFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if gcsuploader.IsGCSURI(location) {
		if f.Storage == nil {
			return nil, fmt.Errorf("StorageFetcher: no storage configured for %s", location)
		}
		return f.Storage.FetchFromGCS(ctx, location)
	}
	return f.Local.Fetch(ctx, location)
}

// SourcesFromLocations builds sources from paths or gs:// URIs, naming each
// one after its file name.
func SourcesFromLocations(locations []string) []Source {
	sources := make([]Source, 0, len(locations))
	for _, loc := range locations {
		name := filepath.Base(loc)
		if gcsuploader.IsGCSURI(loc) {
			name = gcsuploader.ExtractFilenameFromGCSURI(loc)
		}
		sources = append(sources, Source{Name: name, Location: loc})
	}
	return sources
}
