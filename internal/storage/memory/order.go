package memory

import (
	"context"
	"sync"

	"github.com/shineway/pos-server/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository holds order records in insertion order, like the
// original's append-only array.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []order.Order
}

// NewOrderRepository creates an empty repository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// List returns a copy of all orders in insertion order.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]order.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

// GetByID returns one order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, order.ErrNotFound
}

// Create appends a new record.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, *o)
	return nil
}

// Replace overwrites the record with the same id.
func (r *OrderRepository) Replace(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == o.ID {
			r.orders[i] = *o
			return nil
		}
	}
	return order.ErrNotFound
}

// Delete removes the record with the given id.
func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return order.ErrNotFound
}
