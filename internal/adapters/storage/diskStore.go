package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps uploaded bytes in a local directory. Names are generated
// by the caller from random tokens, so concurrent saves never collide.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (s *DiskStore) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.root, name), data, 0o644)
}

// Remove deletes a stored file. A file that is already gone counts as
// removed, which keeps the compensating delete idempotent.
func (s *DiskStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
