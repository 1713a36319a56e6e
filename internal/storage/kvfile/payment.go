package kvfile

import (
	"context"

	"github.com/shineway/pos-server/internal/domain/payment"
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository persists settlement records under the
// restaurant_payments key.
type PaymentRepository struct {
	store *Store
}

// NewPaymentRepository creates a repository over the store.
func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

// Create appends a settlement record.
func (r *PaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	return r.store.Update(paymentsKey, func(data []byte, exists bool) ([]byte, error) {
		var payments []payment.Payment
		if exists {
			var err error
			if payments, err = decodePayments(data); err != nil {
				return nil, err
			}
		}
		return encodePayments(append(payments, *p)), nil
	})
}

// ByOrderID returns the records for one order.
func (r *PaymentRepository) ByOrderID(_ context.Context, orderID string) ([]payment.Payment, error) {
	data, exists, err := r.store.Read(paymentsKey)
	if err != nil {
		return nil, err
	}
	out := make([]payment.Payment, 0)
	if !exists {
		return out, nil
	}
	payments, err := decodePayments(data)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}
