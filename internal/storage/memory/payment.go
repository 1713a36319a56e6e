package memory

import (
	"context"
	"sync"

	"github.com/shineway/pos-server/internal/domain/payment"
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository holds settlement records in process memory.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments []payment.Payment
}

// NewPaymentRepository creates an empty repository.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Create appends a settlement record.
func (r *PaymentRepository) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments = append(r.payments, *p)
	return nil
}

// ByOrderID returns the records for one order.
func (r *PaymentRepository) ByOrderID(_ context.Context, orderID string) ([]payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]payment.Payment, 0)
	for _, p := range r.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}
