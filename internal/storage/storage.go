package storage

import "context"

// BlobStorage stores uploaded files (product images) and returns a stable
// public URL for each object. Both S3-compatible and local-disk stores
// implement this.
type BlobStorage interface {
	// Put writes data under the given key and returns the public URL.
	Put(ctx context.Context, data []byte, key string, contentType string) (string, error)
}
