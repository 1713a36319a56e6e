package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shineway/pos-server/internal/domain/menu"
)

// ErrNotFound is returned when an order id does not exist in the store.
var ErrNotFound = errors.New("order not found")

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw order status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", errors.Errorf("invalid order status: %q", s)
	}
}

// PaymentStatus tracks whether an order has been settled. Independent of
// Status, but coupled to table status by the payment flow's side effects.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentPaid, PaymentFailed:
		return PaymentStatus(s), nil
	default:
		return "", errors.Errorf("invalid payment status: %q", s)
	}
}

// LineItem is one menu item plus quantity within an order. The menu item is
// embedded by value: an order owns a copy of the catalog entry at the time
// it was added. Within one order there is at most one line per menu item id.
type LineItem struct {
	MenuItem menu.Item `json:"menuItem"`
	Quantity int       `json:"quantity" validate:"gt=0"`
	Notes    string    `json:"notes,omitempty"`
}

// Subtotal returns price × quantity for this line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.MenuItem.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is a persisted order record for one table visit.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	TableID       string          `json:"tableId"`
	TableName     string          `json:"tableName"`
	Floor         int             `json:"floor"`
	Items         []LineItem      `json:"items"`
	Status        Status          `json:"status"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountCode  string          `json:"discountCode,omitempty"`
	FinalTotal    decimal.Decimal `json:"finalTotal"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	StaffName     string          `json:"staffName"`
	CustomerName  string          `json:"customerName,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// Repository defines persistence operations for orders. Implementations
// follow the full-collection write model: every mutation reads, modifies,
// and writes back, last-writer-wins. Single-writer assumption.
type Repository interface {
	List(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	Create(ctx context.Context, o *Order) error
	// Replace overwrites the stored record with the same id, or returns
	// ErrNotFound leaving the collection untouched.
	Replace(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}
