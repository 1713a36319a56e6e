// Package kvfile implements the repositories over a file-backed key-value
// store, mirroring the original's browser storage: one JSON document per
// fixed key, and every mutation is a full-collection read-modify-write.
// Last-writer-wins; the store assumes a single writer process.
package kvfile

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

// Storage keys, kept verbatim from the original front-end.
const (
	tablesKey   = "restaurant_tables"
	ordersKey   = "restaurant_orders"
	paymentsKey = "restaurant_payments"
)

// Store maps keys to JSON documents on disk, one file per key.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// Open creates the storage directory if needed and returns the store.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}
	return &Store{dir: dir}, nil
}

// Read returns the document under key. The second return value reports
// whether the key exists.
func (s *Store) Read(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(key)
}

// Update applies fn to the current document (nil when the key is absent)
// and writes back the returned document, all under the write lock. This is
// the read-modify-write cycle every mutation goes through.
func (s *Store) Update(key string, fn func(data []byte, exists bool) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists, err := s.readLocked(key)
	if err != nil {
		return err
	}
	next, err := fn(data, exists)
	if err != nil {
		return err
	}
	return s.writeLocked(key, next)
}

func (s *Store) readLocked(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return data, true, nil
}

// writeLocked replaces the document atomically: write a temp file in the
// same directory, then rename over the target. All-or-nothing, like the
// original's single setItem call.
func (s *Store) writeLocked(key string, data []byte) error {
	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", key)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", key)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
