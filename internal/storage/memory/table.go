package memory

import (
	"context"
	"sync"

	"github.com/shineway/pos-server/internal/domain/table"
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository holds the table set in process memory.
type TableRepository struct {
	mu     sync.RWMutex
	tables []table.Table
}

// NewTableRepository creates an empty repository; call Seed to populate.
func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// List returns a copy of all tables.
func (r *TableRepository) List(_ context.Context) ([]table.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]table.Table, len(r.tables))
	copy(out, r.tables)
	return out, nil
}

// GetByID returns one table, or table.ErrNotFound.
func (r *TableRepository) GetByID(_ context.Context, id string) (*table.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tables {
		if t.ID == id {
			out := t
			return &out, nil
		}
	}
	return nil, table.ErrNotFound
}

// UpdateStatus replaces one table's status in place.
func (r *TableRepository) UpdateStatus(_ context.Context, id string, status table.Status) (*table.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tables {
		if r.tables[i].ID == id {
			r.tables[i].Status = status
			out := r.tables[i]
			return &out, nil
		}
	}
	return nil, table.ErrNotFound
}

// Seed stores the grid only when the repository is still empty.
func (r *TableRepository) Seed(_ context.Context, tables []table.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.tables) > 0 {
		return nil
	}
	r.tables = make([]table.Table, len(tables))
	copy(r.tables, tables)
	return nil
}
