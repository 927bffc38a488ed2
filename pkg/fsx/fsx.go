// Package fsx abstracts the object storage used for user uploads.
package fsx

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when a path has no stored object.
var ErrNotExist = errors.New("fsx: file does not exist")

// FileReader reads stored objects.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileSystem stores uploaded objects under slash separated paths.
type FileSystem interface {
	FileReader
	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, r io.Reader) error
	DeleteFile(ctx context.Context, path string) error
	Join(elem ...string) string
	// URL returns the public address clients use to fetch path.
	URL(path string) string
}
