package storage

import (
	"context"
	"mime/multipart"
)

// ImageUploader defines the interface for uploading hotel and room images
// This interface allows for easy mocking in tests
type ImageUploader interface {
	UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, prefix string) (*UploadResult, error)
}

// Ensure S3Uploader implements ImageUploader
var _ ImageUploader = (*S3Uploader)(nil)
