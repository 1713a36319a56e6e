package kvfile

import (
	"context"

	"github.com/shineway/pos-server/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository persists orders under the restaurant_orders key as one
// append-ordered array.
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates a repository over the store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// List returns all orders in insertion order.
func (r *OrderRepository) List(_ context.Context) ([]order.Order, error) {
	data, exists, err := r.store.Read(ordersKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []order.Order{}, nil
	}
	return decodeOrders(data)
}

// GetByID returns one order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, order.ErrNotFound
}

// Create appends the order and rewrites the collection.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	return r.store.Update(ordersKey, func(data []byte, exists bool) ([]byte, error) {
		var orders []order.Order
		if exists {
			var err error
			if orders, err = decodeOrders(data); err != nil {
				return nil, err
			}
		}
		return encodeOrders(append(orders, *o)), nil
	})
}

// Replace overwrites the stored record with the same id.
func (r *OrderRepository) Replace(_ context.Context, o *order.Order) error {
	return r.store.Update(ordersKey, func(data []byte, exists bool) ([]byte, error) {
		if !exists {
			return nil, order.ErrNotFound
		}
		orders, err := decodeOrders(data)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if orders[i].ID == o.ID {
				orders[i] = *o
				return encodeOrders(orders), nil
			}
		}
		return nil, order.ErrNotFound
	})
}

// Delete removes the record with the given id.
func (r *OrderRepository) Delete(_ context.Context, id string) error {
	return r.store.Update(ordersKey, func(data []byte, exists bool) ([]byte, error) {
		if !exists {
			return nil, order.ErrNotFound
		}
		orders, err := decodeOrders(data)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			if orders[i].ID == id {
				return encodeOrders(append(orders[:i], orders[i+1:]...)), nil
			}
		}
		return nil, order.ErrNotFound
	})
}
