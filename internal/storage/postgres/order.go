package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shineway/pos-server/internal/domain/order"
)

const (
	orderColumns = `id, order_number, table_id, table_name, floor, items,
		status, payment_status, created_at, updated_at, total, discount,
		discount_code, final_total, payment_method, staff_name, customer_name, notes`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at`

	getOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	replaceOrderSQL = `UPDATE orders SET order_number = $2, table_id = $3,
		table_name = $4, floor = $5, items = $6, status = $7, payment_status = $8,
		created_at = $9, updated_at = $10, total = $11, discount = $12,
		discount_code = $13, final_total = $14, payment_method = $15,
		staff_name = $16, customer_name = $17, notes = $18
		WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are serialized to JSON for storage in the JSONB column, keeping the
// order's snapshot of catalog entries intact.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// List returns all orders in creation order.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}

// GetByID returns one order, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.OrderNumber, o.TableID, o.TableName, o.Floor, itemsJSON,
		string(o.Status), string(o.PaymentStatus), o.CreatedAt, o.UpdatedAt,
		o.Total, o.Discount, o.DiscountCode, o.FinalTotal, o.PaymentMethod,
		o.StaffName, o.CustomerName, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// Replace overwrites the stored record with the same id.
func (r *OrderRepository) Replace(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, replaceOrderSQL,
		o.ID, o.OrderNumber, o.TableID, o.TableName, o.Floor, itemsJSON,
		string(o.Status), string(o.PaymentStatus), o.CreatedAt, o.UpdatedAt,
		o.Total, o.Discount, o.DiscountCode, o.FinalTotal, o.PaymentMethod,
		o.StaffName, o.CustomerName, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("replacing order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes the record with the given id.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o             order.Order
		itemsJSON     []byte
		status        string
		paymentStatus string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.TableID, &o.TableName, &o.Floor, &itemsJSON,
		&status, &paymentStatus, &o.CreatedAt, &o.UpdatedAt, &o.Total,
		&o.Discount, &o.DiscountCode, &o.FinalTotal, &o.PaymentMethod,
		&o.StaffName, &o.CustomerName, &o.Notes,
	)
	if err != nil {
		return o, err
	}
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
