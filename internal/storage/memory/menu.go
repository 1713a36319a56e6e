// Package memory implements the repositories as in-process collections.
// It is the Go counterpart of the original mock API layer: every operation
// completes synchronously against canned or session-local data, and nothing
// survives a restart.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"

	"github.com/shineway/pos-server/internal/domain/menu"
)

var _ menu.Repository = (*MenuRepository)(nil)

// MenuRepository serves the catalog from a fixed item list.
type MenuRepository struct {
	mu    sync.RWMutex
	items []menu.Item
}

// NewMenuRepository creates a repository over the given items.
func NewMenuRepository(items []menu.Item) *MenuRepository {
	return &MenuRepository{items: items}
}

// NewMenuRepositoryFromSeed parses the embedded menu seed JSON.
func NewMenuRepositoryFromSeed(seed []byte) (*MenuRepository, error) {
	var items []menu.Item
	if err := json.Unmarshal(seed, &items); err != nil {
		return nil, errors.Wrap(err, "parse menu seed")
	}
	return NewMenuRepository(items), nil
}

// List returns a copy of the catalog.
func (r *MenuRepository) List(_ context.Context) ([]menu.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]menu.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// GetByID returns one item, or menu.ErrNotFound.
func (r *MenuRepository) GetByID(_ context.Context, id string) (*menu.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			out := item
			return &out, nil
		}
	}
	return nil, menu.ErrNotFound
}
