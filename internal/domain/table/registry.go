package table

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// Floor plan of the restaurant: a fixed grid generated on first start.
const (
	defaultFloors    = 3
	tablesPerFloor   = 8
	tableIDFormat    = "table-%d-%d"
	tableLabelFormat = "B%d"
)

// Registry manages the fixed table set and its status transitions.
type Registry struct {
	repo Repository
}

// NewRegistry creates a Registry backed by the given repository.
func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// Initialize seeds the fixed floor grid with all statuses empty. Idempotent:
// the repository ignores the seed when tables already exist, so restarting
// the server never resets occupancy.
func (r *Registry) Initialize(ctx context.Context) error {
	grid := make([]Table, 0, defaultFloors*tablesPerFloor)
	for floor := 1; floor <= defaultFloors; floor++ {
		for n := 1; n <= tablesPerFloor; n++ {
			grid = append(grid, Table{
				ID:     fmt.Sprintf(tableIDFormat, floor, n),
				Number: fmt.Sprintf(tableLabelFormat, n),
				Status: StatusEmpty,
				Floor:  floor,
			})
		}
	}
	if err := r.repo.Seed(ctx, grid); err != nil {
		return errors.Wrap(err, "seed tables")
	}
	return nil
}

// GetAll returns every table.
func (r *Registry) GetAll(ctx context.Context) ([]Table, error) {
	return r.repo.List(ctx)
}

// GetByID returns a single table, or ErrNotFound.
func (r *Registry) GetByID(ctx context.Context, id string) (*Table, error) {
	return r.repo.GetByID(ctx, id)
}

// GetByFloor returns the tables on one floor.
func (r *Registry) GetByFloor(ctx context.Context, floor int) ([]Table, error) {
	tables, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Table, 0, tablesPerFloor)
	for _, t := range tables {
		if t.Floor == floor {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// GetByStatus returns the tables currently in the given status.
func (r *Registry) GetByStatus(ctx context.Context, status Status) ([]Table, error) {
	tables, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Table, 0, len(tables))
	for _, t := range tables {
		if t.Status == status {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// UpdateStatus replaces a table's status. Transitions driven by the order
// flow are empty→inUse on first order save and inUse→empty on payment
// success; empty⇄reserved is reachable only administratively.
func (r *Registry) UpdateStatus(ctx context.Context, id string, status Status) (*Table, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	return r.repo.UpdateStatus(ctx, id, status)
}
