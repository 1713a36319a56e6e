package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Method is the closed set of payment methods.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
)

// ParseMethod validates a raw method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodCard, MethodTransfer:
		return Method(s), nil
	default:
		return "", errors.Errorf("invalid payment method: %q", s)
	}
}

// Payment is a persisted settlement record, written once at the moment a
// successful payment is committed.
type Payment struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"orderId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"method"`
	Status        string          `json:"status"`
	TransactionID string          `json:"transactionId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Repository defines persistence operations for payment records.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ByOrderID(ctx context.Context, orderID string) ([]Payment, error)
}
