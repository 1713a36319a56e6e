package kvfile

import (
	"context"

	"github.com/shineway/pos-server/internal/domain/table"
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository persists the table set under the restaurant_tables key.
type TableRepository struct {
	store *Store
}

// NewTableRepository creates a repository over the store.
func NewTableRepository(store *Store) *TableRepository {
	return &TableRepository{store: store}
}

// List returns all tables, or an empty slice when nothing was seeded yet.
func (r *TableRepository) List(_ context.Context) ([]table.Table, error) {
	data, exists, err := r.store.Read(tablesKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []table.Table{}, nil
	}
	return decodeTables(data)
}

// GetByID returns one table, or table.ErrNotFound.
func (r *TableRepository) GetByID(ctx context.Context, id string) (*table.Table, error) {
	tables, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tables {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, table.ErrNotFound
}

// UpdateStatus rewrites the whole collection with one status changed.
func (r *TableRepository) UpdateStatus(_ context.Context, id string, status table.Status) (*table.Table, error) {
	var updated *table.Table
	err := r.store.Update(tablesKey, func(data []byte, exists bool) ([]byte, error) {
		if !exists {
			return nil, table.ErrNotFound
		}
		tables, err := decodeTables(data)
		if err != nil {
			return nil, err
		}
		for i := range tables {
			if tables[i].ID == id {
				tables[i].Status = status
				out := tables[i]
				updated = &out
				return encodeTables(tables), nil
			}
		}
		return nil, table.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Seed writes the grid only when the key does not exist yet, so restarts
// never wipe table statuses.
func (r *TableRepository) Seed(_ context.Context, tables []table.Table) error {
	return r.store.Update(tablesKey, func(data []byte, exists bool) ([]byte, error) {
		if exists {
			return data, nil
		}
		return encodeTables(tables), nil
	})
}
