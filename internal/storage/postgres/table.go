package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shineway/pos-server/internal/domain/table"
)

const (
	listTablesSQL = `SELECT id, number, status, floor FROM tables ORDER BY floor, id`

	getTableSQL = `SELECT id, number, status, floor FROM tables WHERE id = $1`

	updateTableStatusSQL = `UPDATE tables SET status = $2 WHERE id = $1
		RETURNING id, number, status, floor`

	countTablesSQL = `SELECT COUNT(*) FROM tables`

	insertTableSQL = `INSERT INTO tables (id, number, status, floor)
		VALUES ($1, $2, $3, $4)`
)

var _ table.Repository = (*TableRepository)(nil)

// TableRepository implements table.Repository backed by PostgreSQL.
type TableRepository struct {
	pool *pgxpool.Pool
}

// NewTableRepository returns a TableRepository that uses the given pool.
func NewTableRepository(pool *pgxpool.Pool) *TableRepository {
	return &TableRepository{pool: pool}
}

// List returns all tables ordered by floor and id.
func (r *TableRepository) List(ctx context.Context) ([]table.Table, error) {
	rows, err := r.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	tables, err := pgx.CollectRows(rows, scanTable)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return tables, nil
}

// GetByID returns one table, or table.ErrNotFound.
func (r *TableRepository) GetByID(ctx context.Context, id string) (*table.Table, error) {
	rows, err := r.pool.Query(ctx, getTableSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting table %q: %w", id, err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, fmt.Errorf("getting table %q: %w", id, err)
	}
	return &t, nil
}

// UpdateStatus replaces one table's status and returns the updated record.
func (r *TableRepository) UpdateStatus(ctx context.Context, id string, status table.Status) (*table.Table, error) {
	rows, err := r.pool.Query(ctx, updateTableStatusSQL, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("updating table %q: %w", id, err)
	}

	t, err := pgx.CollectExactlyOneRow(rows, scanTable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, table.ErrNotFound
		}
		return nil, fmt.Errorf("updating table %q: %w", id, err)
	}
	return &t, nil
}

// Seed inserts the grid only when the tables relation is still empty.
func (r *TableRepository) Seed(ctx context.Context, tables []table.Table) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("seeding tables: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int64
	if err := tx.QueryRow(ctx, countTablesSQL).Scan(&count); err != nil {
		return fmt.Errorf("seeding tables: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, t := range tables {
		if _, err := tx.Exec(ctx, insertTableSQL, t.ID, t.Number, string(t.Status), t.Floor); err != nil {
			return fmt.Errorf("seeding table %q: %w", t.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func scanTable(row pgx.CollectableRow) (table.Table, error) {
	var (
		t      table.Table
		status string
	)
	err := row.Scan(&t.ID, &t.Number, &status, &t.Floor)
	t.Status = table.Status(status)
	return t, err
}
