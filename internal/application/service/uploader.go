package service

import (
	"context"
	"io"
)

// Uploader pushes raw image bytes to the off-site backup target.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
