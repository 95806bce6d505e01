package blobstore

import (
	"context"
	"io"
)

// PutResult describes one stored payload. Key is the name the caller must
// record to read the bytes back; it is derived from the content, never
// from client input. Existed is true when an object for the same content
// was already present, meaning other records may reference this key.
type PutResult struct {
	Key       string
	SHA256    string
	SizeBytes int64
	Existed   bool
}

// BlobStore is the byte-storage boundary used by the upload and download
// services. Implementations confine all I/O to one configured root and
// never interpret content.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader) (PutResult, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
