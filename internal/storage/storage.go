package storage

import "context"

// ObjectStore is the object-storage collaborator: store bytes, get back a
// public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}
