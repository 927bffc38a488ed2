package fsx

import (
	"bytes"
	"context"
	"io"
	"path"
	"sync"
)

// MemFS keeps objects in process memory. It backs tests and the development
// server when no bucket is configured.
type MemFS struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
}

func NewMemFS(baseURL string) *MemFS {
	return &MemFS{
		files:   make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (m *MemFS) WriteFile(_ context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = bytes.Clone(data)
	return nil
}

func (m *MemFS) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return m.WriteFile(ctx, p, data)
}

func (m *MemFS) ReadFile(_ context.Context, p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[p]
	if !ok {
		return nil, ErrNotExist
	}
	return bytes.Clone(data), nil
}

func (m *MemFS) DeleteFile(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		return ErrNotExist
	}
	delete(m.files, p)
	return nil
}

func (m *MemFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (m *MemFS) URL(p string) string {
	if m.baseURL == "" {
		return "/" + p
	}
	return m.baseURL + "/" + p
}
