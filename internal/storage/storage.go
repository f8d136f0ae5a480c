// Package storage keeps uploaded meeting documents and recordings as blobs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Storage errors returned by Store implementations.
var (
	// ErrNotFound indicates the requested key does not exist.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates an empty key or a path traversal attempt.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// Store saves and loads binary blobs by key.
type Store interface {
	// Put saves data at key, overwriting any previous content.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the data at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
}

// DocumentKey builds the key of a document uploaded to a meeting. The
// filename is reduced to its base name.
func DocumentKey(meetingID, documentID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "document"
	}
	return fmt.Sprintf("meetings/%s/%s/%s", meetingID, documentID, name)
}
