package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FileStore menyimpan tiap key sebagai <dir>/<key>.json, sama dengan layout
// descriptors.json dan attendance.json milik backend lama.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("gagal membuat direktori data %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("key tidak valid: %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// SaveBlob menulis ke file sementara lalu rename, jadi pembaca tidak pernah
// melihat file setengah jadi.
func (f *FileStore) SaveBlob(ctx context.Context, key string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("gagal membuat file sementara: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("gagal menulis %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("gagal menutup %s: %w", key, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("gagal menyimpan %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) LoadBlob(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gagal membaca %s: %w", key, err)
	}
	return b, nil
}
