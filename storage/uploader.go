package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader writes publicly served media. Keys are stable per owner
// (teams/{id}/logo, characters/{id}/avatar), so a re-upload overwrites
// the previous object in place.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	GetPublicURL(key string) string
}
