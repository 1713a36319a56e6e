package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/table"
)

// State is the position of one payment dialog.
type State string

const (
	// StateSelecting: choosing a payment method.
	StateSelecting State = "selecting"
	// StateTransferCode: showing the transfer code, waiting for confirm.
	StateTransferCode State = "transferCode"
	// StateSuccess: outcome screen; commit happens on Exit.
	StateSuccess State = "success"
	// StateFailed: outcome screen reached only by user cancellation.
	StateFailed State = "failed"
)

// TransitionError reports an action attempted from the wrong state.
type TransitionError struct {
	From   State
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from payment state %q", e.Action, e.From)
}

// Flow is the short-lived state machine behind the payment dialog for one
// order. The success and failed screens are decoupled from the actual
// commit: side effects run only when the user exits the success screen.
//
// There is no real gateway behind this flow. Confirm always succeeds;
// "failed" is reachable only through explicit cancellation, which forces an
// outcome screen instead of silently closing the dialog.
//
// Not goroutine-safe; serialized by the owning session.
type Flow struct {
	orders   *order.Store
	tables   *table.Registry
	payments Repository
	session  *order.Composer

	target   *order.Order
	state    State
	method   Method
	recorded bool
}

// NewFlow opens a payment dialog for the composer's saved current order.
func NewFlow(orders *order.Store, tables *table.Registry, payments Repository, session *order.Composer) (*Flow, error) {
	target, err := session.BeginPayment()
	if err != nil {
		return nil, err
	}
	return &Flow{
		orders:   orders,
		tables:   tables,
		payments: payments,
		session:  session,
		target:   target,
		state:    StateSelecting,
	}, nil
}

// State returns the current dialog state.
func (f *Flow) State() State { return f.state }

// Method returns the chosen payment method, empty until chosen.
func (f *Flow) Method() Method { return f.method }

// Order returns the order being paid.
func (f *Flow) Order() *order.Order { return f.target }

// Continue records the chosen method and advances: transfer shows the code
// screen first, cash and card confirm directly.
func (f *Flow) Continue(method Method) error {
	if f.state != StateSelecting {
		return &TransitionError{From: f.state, Action: "continue"}
	}
	if _, err := ParseMethod(string(method)); err != nil {
		return err
	}
	f.method = method
	if method == MethodTransfer {
		f.state = StateTransferCode
		return nil
	}
	return f.Confirm()
}

// Confirm settles the payment. Deterministic: always succeeds. Valid from
// the transfer-code screen, or from selecting once a method was chosen.
func (f *Flow) Confirm() error {
	if f.state != StateSelecting && f.state != StateTransferCode {
		return &TransitionError{From: f.state, Action: "confirm"}
	}
	if f.method == "" {
		return &TransitionError{From: f.state, Action: "confirm without method"}
	}
	f.state = StateSuccess
	return nil
}

// Cancel forces the failed outcome screen. Deliberate: cancelling never
// just closes the dialog, the user always sees an outcome before exit.
func (f *Flow) Cancel() error {
	if f.state != StateSelecting && f.state != StateTransferCode {
		return &TransitionError{From: f.state, Action: "cancel"}
	}
	f.state = StateFailed
	return nil
}

// Retry returns from the failed screen to method selection.
func (f *Flow) Retry() error {
	if f.state != StateFailed {
		return &TransitionError{From: f.state, Action: "retry"}
	}
	f.state = StateSelecting
	f.method = ""
	return nil
}

// Exit closes the dialog. Exiting the success screen commits the outcome:
// a payment record is written, the table goes back to empty, the order's
// payment status flips to paid with the chosen method, and the composer
// session clears. Exiting the failed screen commits nothing — the order
// stays unpaid and reloads as the table's current order.
//
// The commit is three repository writes without a shared transaction. The
// order flip runs last so that a failure mid-commit never reports the
// order paid: the flow stays on the success screen, Exit can be retried,
// and the writes that already landed are skipped or harmlessly repeated.
//
// Returns whether the payment was committed.
func (f *Flow) Exit(ctx context.Context) (bool, error) {
	if f.state != StateSuccess && f.state != StateFailed {
		return false, &TransitionError{From: f.state, Action: "exit"}
	}
	if f.state == StateFailed {
		f.session.EndPayment(false)
		return false, nil
	}

	if !f.recorded {
		record := &Payment{
			ID:            uuid.New().String(),
			OrderID:       f.target.ID,
			Amount:        f.target.FinalTotal,
			Method:        f.method,
			Status:        "completed",
			TransactionID: uuid.New().String(),
			CreatedAt:     time.Now(),
		}
		if err := f.payments.Create(ctx, record); err != nil {
			return false, errors.Wrap(err, "record payment")
		}
		f.recorded = true
	}

	if _, err := f.tables.UpdateStatus(ctx, f.target.TableID, table.StatusEmpty); err != nil {
		return false, errors.Wrap(err, "free table")
	}

	if _, err := f.orders.UpdatePaymentStatus(ctx, f.target.ID, order.PaymentPaid, string(f.method)); err != nil {
		return false, errors.Wrap(err, "mark order paid")
	}

	f.session.EndPayment(true)
	return true, nil
}
