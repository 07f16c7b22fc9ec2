package images

import "context"

// Uploader stores product images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, base64Image, folder string) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}
