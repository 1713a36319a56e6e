package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Order numbers are sequential display codes: ORD001, ORD002, ...
const (
	orderNumberPrefix = "ORD"
	firstOrderNumber  = 1
)

// Draft is the caller-supplied part of a new order. The store assigns id,
// order number, and timestamps.
type Draft struct {
	TableID      string     `validate:"required"`
	TableName    string     `validate:"required"`
	Floor        int        `validate:"gt=0"`
	Items        []LineItem `validate:"required,min=1,dive"`
	Total        decimal.Decimal
	Discount     decimal.Decimal
	DiscountCode string
	StaffName    string `validate:"required"`
	CustomerName string
	Notes        string
}

// Patch holds the fields updateable after creation. Nil pointers are left
// untouched; set pointers replace the stored value wholesale.
type Patch struct {
	Items         *[]LineItem
	Total         *decimal.Decimal
	Discount      *decimal.Decimal
	DiscountCode  *string
	Status        *Status
	PaymentStatus *PaymentStatus
	PaymentMethod *string
	CustomerName  *string
	Notes         *string
}

// Store is the durable collection of order records. It generates sequential
// order numbers and performs the read-merge-write cycle for updates.
type Store struct {
	repo     Repository
	validate *validator.Validate
}

// NewStore creates a Store over the given repository.
func NewStore(repo Repository) *Store {
	return &Store{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetAll returns every persisted order. Timestamps come back as time values
// regardless of the stored representation; repositories rehydrate them.
func (s *Store) GetAll(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// GetByID returns a single order, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GenerateOrderNumber derives the next sequential code from the numeric
// suffix of the last stored order. Starts at ORD001 on an empty store.
// Not concurrency-safe; the store relies on the single-writer assumption.
func (s *Store) GenerateOrderNumber(ctx context.Context) (string, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list orders")
	}
	if len(all) == 0 {
		return formatOrderNumber(firstOrderNumber), nil
	}

	last := all[len(all)-1]
	n, err := strconv.Atoi(strings.TrimPrefix(last.OrderNumber, orderNumberPrefix))
	if err != nil {
		return "", errors.Wrapf(err, "parse order number %q", last.OrderNumber)
	}
	return formatOrderNumber(n + 1), nil
}

func formatOrderNumber(n int) string {
	return fmt.Sprintf("%s%03d", orderNumberPrefix, n)
}

// Save creates a new order from the draft: assigns a time-based id and a
// fresh order number, stamps both timestamps to now, computes the final
// total, and appends the record.
func (s *Store) Save(ctx context.Context, draft Draft) (*Order, error) {
	if err := s.validate.Struct(draft); err != nil {
		return nil, errors.Wrap(err, "validate draft")
	}

	number, err := s.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o := &Order{
		ID:            strconv.FormatInt(now.UnixNano(), 10),
		OrderNumber:   number,
		TableID:       draft.TableID,
		TableName:     draft.TableName,
		Floor:         draft.Floor,
		Items:         draft.Items,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
		Total:         draft.Total,
		Discount:      draft.Discount,
		DiscountCode:  draft.DiscountCode,
		FinalTotal:    finalTotal(draft.Total, draft.Discount),
		StaffName:     draft.StaffName,
		CustomerName:  draft.CustomerName,
		Notes:         draft.Notes,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Update merges the patch over the stored record, stamps UpdatedAt, and
// writes the record back. Returns ErrNotFound for a missing id; the stored
// collection is untouched in that case.
func (s *Store) Update(ctx context.Context, id string, patch Patch) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Items != nil {
		o.Items = *patch.Items
	}
	if patch.Total != nil {
		o.Total = *patch.Total
	}
	if patch.Discount != nil {
		o.Discount = *patch.Discount
	}
	if patch.DiscountCode != nil {
		o.DiscountCode = *patch.DiscountCode
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		o.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentMethod != nil {
		o.PaymentMethod = *patch.PaymentMethod
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.Notes != nil {
		o.Notes = *patch.Notes
	}
	if patch.Total != nil || patch.Discount != nil {
		o.FinalTotal = finalTotal(o.Total, o.Discount)
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Replace(ctx, o); err != nil {
		return nil, errors.Wrap(err, "replace order")
	}
	return o, nil
}

// UpdatePaymentStatus is a convenience wrapper over Update that sets the
// payment status and, when non-empty, the payment method.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus, method string) (*Order, error) {
	patch := Patch{PaymentStatus: &status}
	if method != "" {
		patch.PaymentMethod = &method
	}
	return s.Update(ctx, id, patch)
}

// Delete removes an order. Returns ErrNotFound when the id is unknown.
// Not reachable from the normal composer flow.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ByTable returns every order placed for the given table.
func (s *Store) ByTable(ctx context.Context, tableID string) ([]Order, error) {
	return s.filter(ctx, func(o Order) bool { return o.TableID == tableID })
}

// ByStatus returns every order in the given lifecycle status.
func (s *Store) ByStatus(ctx context.Context, status Status) ([]Order, error) {
	return s.filter(ctx, func(o Order) bool { return o.Status == status })
}

// ByPaymentStatus returns every order in the given payment status.
func (s *Store) ByPaymentStatus(ctx context.Context, status PaymentStatus) ([]Order, error) {
	return s.filter(ctx, func(o Order) bool { return o.PaymentStatus == status })
}

// CurrentForTable resolves the "current order" for a table: the most
// recently created unpaid order. Returns ErrNotFound when the table has no
// unpaid order.
func (s *Store) CurrentForTable(ctx context.Context, tableID string) (*Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var current *Order
	for i := range all {
		o := &all[i]
		if o.TableID != tableID || o.PaymentStatus != PaymentUnpaid {
			continue
		}
		if current == nil || o.CreatedAt.After(current.CreatedAt) {
			current = o
		}
	}
	if current == nil {
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *Store) filter(ctx context.Context, keep func(Order) bool) ([]Order, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]Order, 0, len(all))
	for _, o := range all {
		if keep(o) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// finalTotal applies the discount to the total, floored at zero.
func finalTotal(total, discount decimal.Decimal) decimal.Decimal {
	ft := total.Sub(discount)
	if ft.IsNegative() {
		return decimal.Zero
	}
	return ft
}
