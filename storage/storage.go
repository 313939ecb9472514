// Package storage menyimpan dokumen JSON utuh per key.
// Setiap SaveBlob menimpa seluruh isi key, tidak ada penulisan parsial.
package storage

import (
	"context"
	"errors"
	"sync"
)

const (
	KeyDescriptors = "descriptors"
	KeyAttendance  = "attendance"
)

var ErrNotFound = errors.New("blob tidak ditemukan")

type BlobStore interface {
	SaveBlob(ctx context.Context, key string, blob []byte) error
	// LoadBlob mengembalikan ErrNotFound jika key belum pernah disimpan.
	LoadBlob(ctx context.Context, key string) ([]byte, error)
}

// MemoryStore dipakai untuk test dan mode tanpa persistensi.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	// FailSave jika diisi membuat SaveBlob gagal dengan error ini.
	FailSave error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) SaveBlob(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.blobs[key] = cp
	return nil
}

func (m *MemoryStore) LoadBlob(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// SetFailSave mengatur error simulasi secara aman dari goroutine lain.
func (m *MemoryStore) SetFailSave(err error) {
	m.mu.Lock()
	m.FailSave = err
	m.mu.Unlock()
}
