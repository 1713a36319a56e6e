package table

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested table does not exist.
var ErrNotFound = errors.New("table not found")

// Status is the closed set of table occupancy states. The source of truth
// for which UI actions are available for a table.
type Status string

const (
	// StatusEmpty means the table is free and can take a new order.
	StatusEmpty Status = "empty"
	// StatusInUse means the table has a saved, unpaid order.
	StatusInUse Status = "inUse"
	// StatusReserved means the table is held by an administrative action.
	StatusReserved Status = "reserved"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusEmpty, StatusInUse, StatusReserved:
		return Status(s), nil
	default:
		return "", errors.Errorf("invalid table status: %q", s)
	}
}

// Table is one seat group on a floor. Tables are created once at
// initialization and never deleted; only Status changes afterwards.
type Table struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Status Status `json:"status"`
	Floor  int    `json:"floor"`
}

// Repository defines persistence operations for tables.
type Repository interface {
	List(ctx context.Context) ([]Table, error)
	GetByID(ctx context.Context, id string) (*Table, error)
	// UpdateStatus replaces the status of one table and returns the updated
	// record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status Status) (*Table, error)
	// Seed stores the given tables only when no tables exist yet. It must
	// never overwrite an existing set, or statuses would be wiped.
	Seed(ctx context.Context, tables []Table) error
}
