package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/shineway/pos-server/internal/domain/discount"
	"github.com/shineway/pos-server/internal/domain/table"
)

// Composer validation errors. All are user-facing warnings: they change no
// state and the composer remains usable afterwards.
var (
	ErrNoTableSelected = errors.New("no table selected")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrViewOnly        = errors.New("order is opened read-only")
	ErrNoCurrentOrder  = errors.New("no saved order to pay")
)

// SessionState is the composer's per-table-session state.
type SessionState string

const (
	// SessionEmpty: no items, nothing in progress.
	SessionEmpty SessionState = "empty"
	// SessionEditing: items present, unsaved or saved-unpaid. Re-entrant.
	SessionEditing SessionState = "editing"
	// SessionAwaitingPayment: a payment flow is open for the saved order.
	SessionAwaitingPayment SessionState = "awaitingPayment"
)

// Composer holds the in-progress order for the currently selected table:
// the mutable line-item list, notes, the applied discount, and the
// reference to the persisted "current order" once saved.
//
// Not goroutine-safe. The composer models the original single-tab UI
// session; callers serialize access (the API layer holds one mutex-guarded
// session).
type Composer struct {
	store      *Store
	tables     *table.Registry
	discounter *discount.Service

	staffName string

	tbl      *table.Table
	items    []LineItem
	notes    string
	current  *Order
	viewOnly bool
	inPay    bool

	discountAmount decimal.Decimal
	discountCode   string
}

// NewComposer creates a Composer for one staff session.
func NewComposer(store *Store, tables *table.Registry, discounter *discount.Service, staffName string) *Composer {
	return &Composer{
		store:      store,
		tables:     tables,
		discounter: discounter,
		staffName:  staffName,
	}
}

// SelectTable switches the composer to the given table, always discarding
// unsaved edits for the previous one. When the table is inUse, its most
// recent unpaid order is loaded as the current order; otherwise the
// composer starts empty.
func (c *Composer) SelectTable(ctx context.Context, tableID string) (*table.Table, error) {
	t, err := c.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}

	c.reset()
	c.tbl = t

	if t.Status != table.StatusInUse {
		return t, nil
	}

	current, err := c.store.CurrentForTable(ctx, t.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// inUse table without an unpaid order: start empty.
			return t, nil
		}
		return nil, errors.Wrap(err, "load current order")
	}
	c.adopt(current)
	return t, nil
}

// Deselect drops the table selection along with all composer state.
func (c *Composer) Deselect() {
	c.reset()
}

// AddItem appends a line for the menu item, or merges into the existing
// line for the same menu item id by increasing its quantity. Quantities
// below one count as one.
func (c *Composer) AddItem(item LineItem) error {
	if c.viewOnly {
		return ErrViewOnly
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].MenuItem.ID == item.MenuItem.ID {
			c.items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.items = append(c.items, item)
	return nil
}

// UpdateQuantity sets a line's quantity to exactly quantity (not additive).
// Quantities of zero or below remove the line, same as RemoveItem.
func (c *Composer) UpdateQuantity(menuItemID string, quantity int) error {
	if c.viewOnly {
		return ErrViewOnly
	}
	if quantity <= 0 {
		return c.RemoveItem(menuItemID)
	}
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// RemoveItem deletes the line for the menu item id. Silent no-op if absent.
func (c *Composer) RemoveItem(menuItemID string) error {
	if c.viewOnly {
		return ErrViewOnly
	}
	for i := range c.items {
		if c.items[i].MenuItem.ID == menuItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return nil
}

// Items returns a copy of the current line list.
func (c *Composer) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total sums price × quantity over all lines. Pure: recomputed on every
// call, never cached.
func (c *Composer) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, li := range c.items {
		sum = sum.Add(li.Subtotal())
	}
	return sum
}

// FinalTotal is the total minus the applied discount, floored at zero.
func (c *Composer) FinalTotal() decimal.Decimal {
	return finalTotal(c.Total(), c.discountAmount)
}

// ItemCount sums the quantities over all lines.
func (c *Composer) ItemCount() int {
	n := 0
	for _, li := range c.items {
		n += li.Quantity
	}
	return n
}

// ApplyCode resolves a promo code and records the discount on the session.
func (c *Composer) ApplyCode(code string) error {
	if c.viewOnly {
		return ErrViewOnly
	}
	applied, err := c.discounter.Apply(code, c.Total())
	if err != nil {
		return err
	}
	c.discountAmount = applied.Amount
	c.discountCode = applied.Code
	return nil
}

// ClearDiscount drops the applied discount.
func (c *Composer) ClearDiscount() {
	c.discountAmount = decimal.Zero
	c.discountCode = ""
}

// Discount returns the applied discount amount and code.
func (c *Composer) Discount() (decimal.Decimal, string) {
	return c.discountAmount, c.discountCode
}

// Notes returns the session notes.
func (c *Composer) Notes() string { return c.notes }

// SetNotes replaces the session notes.
func (c *Composer) SetNotes(notes string) { c.notes = notes }

// Table returns the selected table, or nil.
func (c *Composer) Table() *table.Table { return c.tbl }

// Current returns the persisted order this session tracks, or nil before
// the first save.
func (c *Composer) Current() *Order { return c.current }

// ViewOnly reports whether the session was loaded read-only from history.
func (c *Composer) ViewOnly() bool { return c.viewOnly }

// State reports the session state machine position.
func (c *Composer) State() SessionState {
	switch {
	case c.inPay:
		return SessionAwaitingPayment
	case len(c.items) > 0:
		return SessionEditing
	default:
		return SessionEmpty
	}
}

// Clear empties the line list, notes, discount, and the current order
// reference. The table selection is kept.
func (c *Composer) Clear() {
	c.items = nil
	c.notes = ""
	c.current = nil
	c.viewOnly = false
	c.inPay = false
	c.ClearDiscount()
}

// LoadFromHistory replaces the composer state wholesale with a previously
// persisted order, re-selecting the order's table so a later Save has a
// target. fromSidebar opens the order read-only: a payment-status banner
// instead of editable actions, so mutating operations are rejected until
// the next SelectTable or Clear.
func (c *Composer) LoadFromHistory(ctx context.Context, o *Order, fromSidebar bool) error {
	t, err := c.tables.GetByID(ctx, o.TableID)
	if err != nil {
		return errors.Wrap(err, "resolve order table")
	}
	c.reset()
	c.tbl = t
	c.adopt(o)
	c.viewOnly = fromSidebar
	return nil
}

// Save writes the session through to the order store. On first save it
// creates the order, adopts it as the current order, and flips the table to
// inUse; later saves replace items, total, and discount wholesale.
func (c *Composer) Save(ctx context.Context) (*Order, error) {
	if c.viewOnly {
		return nil, ErrViewOnly
	}
	if c.tbl == nil {
		return nil, ErrNoTableSelected
	}
	if len(c.items) == 0 {
		return nil, ErrEmptyOrder
	}

	if c.current != nil {
		items := c.Items()
		total := c.Total()
		updated, err := c.store.Update(ctx, c.current.ID, Patch{
			Items:        &items,
			Total:        &total,
			Discount:     &c.discountAmount,
			DiscountCode: &c.discountCode,
			Notes:        &c.notes,
		})
		if err != nil {
			return nil, errors.Wrap(err, "update order")
		}
		c.current = updated
		return updated, nil
	}

	created, err := c.store.Save(ctx, Draft{
		TableID:      c.tbl.ID,
		TableName:    c.tbl.Number,
		Floor:        c.tbl.Floor,
		Items:        c.Items(),
		Total:        c.Total(),
		Discount:     c.discountAmount,
		DiscountCode: c.discountCode,
		StaffName:    c.staffName,
		Notes:        c.notes,
	})
	if err != nil {
		return nil, err
	}
	c.current = created

	t, err := c.tables.UpdateStatus(ctx, c.tbl.ID, table.StatusInUse)
	if err != nil {
		return nil, errors.Wrap(err, "mark table in use")
	}
	c.tbl = t
	return created, nil
}

// BeginPayment marks the session as awaiting payment for the saved current
// order. The order must have been saved first.
func (c *Composer) BeginPayment() (*Order, error) {
	if c.current == nil {
		return nil, ErrNoCurrentOrder
	}
	c.inPay = true
	return c.current, nil
}

// EndPayment closes the payment phase. A committed (paid) outcome clears
// the session and deselects the table; anything else returns to editing.
func (c *Composer) EndPayment(paid bool) {
	c.inPay = false
	if paid {
		c.Clear()
		c.tbl = nil
	}
}

func (c *Composer) reset() {
	c.Clear()
	c.tbl = nil
}

func (c *Composer) adopt(o *Order) {
	c.items = make([]LineItem, len(o.Items))
	copy(c.items, o.Items)
	c.current = o
	c.notes = o.Notes
	c.discountAmount = o.Discount
	c.discountCode = o.DiscountCode
}
