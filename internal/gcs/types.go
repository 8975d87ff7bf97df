package gcs

import (
	"context"
)

// StorageService provides an interface for cloud storage operations.
// Sources are read from it and export artifacts are published to it.
type StorageService interface {
	// UploadBytes stores data under the given object name with the given content type.
	UploadBytes(ctx context.Context, bucketName, objectName, contentType string, data []byte) error

	// FetchFromGCS downloads file bytes from the given gs:// URI.
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
}
