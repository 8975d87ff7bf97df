package gcsuploader

import (
	"context"

	"google.golang.org/api/option"

	"github.com/dvloznov/partner-warehouse/internal/gcs"
)

// Re-export interface from shared package for backward compatibility
type StorageService = gcs.StorageService

// GCSStorageService is the concrete implementation of StorageService
// that interacts with Google Cloud Storage.
type GCSStorageService struct {
	opts []option.ClientOption
}

// NewGCSStorageService creates a new instance of GCSStorageService.
// A non-empty credentialsFile is used instead of Application Default Credentials.
func NewGCSStorageService(credentialsFile string) *GCSStorageService {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return &GCSStorageService{opts: opts}
}

// UploadBytes delegates to the package-level UploadBytes.
func (s *GCSStorageService) UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	return UploadBytes(ctx, bucketName, objectName, contentType, data, s.opts...)
}

// FetchFromGCS delegates to the package-level FetchFromGCS.
func (s *GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return FetchFromGCS(ctx, gcsURI, s.opts...)
}

var _ StorageService = (*GCSStorageService)(nil)
