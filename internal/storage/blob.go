package storage

import "context"

// BlobStore is the opaque file store documents are uploaded to. Keys are
// generated by the caller and treated as opaque locators everywhere else.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, keys []string) error
}
