// Package store provides the object-storage capability consumed by the sync
// engine: hierarchical group discovery, recursive listing, and object
// fetch/download primitives. The S3 implementation lives in s3.go; the
// engine and its tests depend only on the ObjectStore interface.
package store

import (
	"context"
	"io"
)

// ObjectStore is the narrow object-storage contract the sync engine calls
// through. All methods honor context cancellation.
type ObjectStore interface {
	// ListTopLevelGroups returns the immediate child prefixes of the bucket
	// root (delimiter-based listing), lexicographically sorted. Each prefix
	// keeps its trailing separator, e.g. "showA/".
	ListTopLevelGroups(ctx context.Context) ([]string, error)

	// ListObjects returns every object key under prefix (recursive), in the
	// store's listing order. No filtering is applied.
	ListObjects(ctx context.Context, prefix string) ([]string, error)

	// FetchObject opens an object for streaming reads. The caller must close
	// the returned reader.
	FetchObject(ctx context.Context, key string) (io.ReadCloser, error)

	// DownloadObject transfers an object to localPath and reports the number
	// of bytes written. The destination only comes into existence on success.
	DownloadObject(ctx context.Context, key, localPath string) (int64, error)
}
