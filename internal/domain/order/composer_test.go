package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shineway/pos-server/internal/domain/discount"
	"github.com/shineway/pos-server/internal/domain/table"
)

type mockTableRepo struct {
	tables []table.Table
}

func (m *mockTableRepo) List(_ context.Context) ([]table.Table, error) {
	return m.tables, nil
}

func (m *mockTableRepo) GetByID(_ context.Context, id string) (*table.Table, error) {
	for i := range m.tables {
		if m.tables[i].ID == id {
			t := m.tables[i]
			return &t, nil
		}
	}
	return nil, table.ErrNotFound
}

func (m *mockTableRepo) UpdateStatus(_ context.Context, id string, status table.Status) (*table.Table, error) {
	for i := range m.tables {
		if m.tables[i].ID == id {
			m.tables[i].Status = status
			t := m.tables[i]
			return &t, nil
		}
	}
	return nil, table.ErrNotFound
}

func (m *mockTableRepo) Seed(_ context.Context, tables []table.Table) error {
	if len(m.tables) == 0 {
		m.tables = tables
	}
	return nil
}

func newTestComposer() (*Composer, *mockOrderRepo, *mockTableRepo) {
	orderRepo := &mockOrderRepo{}
	tableRepo := &mockTableRepo{tables: []table.Table{
		{ID: "table-1-1", Number: "B1", Status: table.StatusEmpty, Floor: 1},
		{ID: "table-1-2", Number: "B2", Status: table.StatusEmpty, Floor: 1},
	}}
	composer := NewComposer(
		NewStore(orderRepo),
		table.NewRegistry(tableRepo),
		discount.NewService(discount.DefaultCodes()),
		"Trần Văn B",
	)
	return composer, orderRepo, tableRepo
}

func TestAddItem_MergesSameMenuItem(t *testing.T) {
	c, _, _ := newTestComposer()
	item := testMenuItem("1", "Salad Tuna", 500670)

	require.NoError(t, c.AddItem(LineItem{MenuItem: item, Quantity: 1}))
	require.NoError(t, c.AddItem(LineItem{MenuItem: item, Quantity: 2}))
	require.NoError(t, c.AddItem(LineItem{MenuItem: item}))

	items := c.Items()
	require.Len(t, items, 1, "one line per distinct menu item id")
	assert.Equal(t, 4, items[0].Quantity, "quantity is the sum of added quantities")
}

func TestTotal_PureAndIdempotent(t *testing.T) {
	c, _, _ := newTestComposer()
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 2}))
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("4", "Wagyu Black Paper", 34980), Quantity: 1}))

	want := decimal.NewFromInt(2*500670 + 34980)
	assert.True(t, want.Equal(c.Total()))
	assert.True(t, c.Total().Equal(c.Total()), "repeated reads without mutation agree")
}

func TestUpdateQuantity_ZeroOrNegativeRemovesLine(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		c, _, _ := newTestComposer()
		require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 3}))

		require.NoError(t, c.UpdateQuantity("1", quantity))
		assert.Empty(t, c.Items())
	}
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	c, _, _ := newTestComposer()
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 3}))

	require.NoError(t, c.UpdateQuantity("1", 5))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity, "not additive")
}

func TestRemoveItem_SilentWhenAbsent(t *testing.T) {
	c, _, _ := newTestComposer()
	assert.NoError(t, c.RemoveItem("missing"))
}

func TestSave_RequiresTableAndItems(t *testing.T) {
	c, _, _ := newTestComposer()

	_, err := c.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoTableSelected)

	_, err = c.SelectTable(context.Background(), "table-1-1")
	require.NoError(t, err)
	_, err = c.Save(context.Background())
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestSave_FirstSaveCreatesOrderAndMarksTableInUse(t *testing.T) {
	c, _, tableRepo := newTestComposer()
	ctx := context.Background()

	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1}))

	created, err := c.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORD001", created.OrderNumber)
	assert.Equal(t, created, c.Current(), "created record adopted as current order")

	got, err := tableRepo.GetByID(ctx, "table-1-1")
	require.NoError(t, err)
	assert.Equal(t, table.StatusInUse, got.Status)
}

func TestSave_SecondSaveUpdatesInPlace(t *testing.T) {
	c, orderRepo, _ := newTestComposer()
	ctx := context.Background()

	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1}))
	first, err := c.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 2}))
	second, err := c.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "no new record on re-save")
	assert.Len(t, orderRepo.orders, 1)
	assert.Equal(t, 3, orderRepo.orders[0].Items[0].Quantity)
}

func TestSelectTable_LoadsCurrentUnpaidOrder(t *testing.T) {
	c, _, _ := newTestComposer()
	ctx := context.Background()

	// First session: build and save an order with an applied discount.
	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 200000), Quantity: 2}))
	require.NoError(t, c.ApplyCode("XVYZ6H"))
	_, err = c.Save(ctx)
	require.NoError(t, err)

	// Switch away and back: the unpaid order must reload.
	_, err = c.SelectTable(ctx, "table-1-2")
	require.NoError(t, err)
	assert.Empty(t, c.Items())

	_, err = c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.Len(t, c.Items(), 1)
	require.NotNil(t, c.Current())
	assert.True(t, decimal.NewFromInt(400000).Equal(c.Total()))
	amount, code := c.Discount()
	assert.True(t, decimal.NewFromInt(30000).Equal(amount))
	assert.Equal(t, "XVYZ6H", code)
	assert.True(t, decimal.NewFromInt(370000).Equal(c.FinalTotal()))
}

func TestSelectTable_DiscardsUnsavedEdits(t *testing.T) {
	c, _, _ := newTestComposer()
	ctx := context.Background()

	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1}))

	_, err = c.SelectTable(ctx, "table-1-2")
	require.NoError(t, err)
	assert.Empty(t, c.Items(), "no autosave on table switch")

	_, err = c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items(), "table was never saved, so nothing to reload")
}

func TestLoadFromHistory_SidebarIsReadOnly(t *testing.T) {
	c, _, _ := newTestComposer()
	ctx := context.Background()
	o := &Order{
		ID:          "1",
		OrderNumber: "ORD005",
		TableID:     "table-1-1",
		Items: []LineItem{
			{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1},
		},
		PaymentStatus: PaymentPaid,
	}

	require.NoError(t, c.LoadFromHistory(ctx, o, true))
	assert.True(t, c.ViewOnly())

	assert.ErrorIs(t, c.AddItem(LineItem{MenuItem: testMenuItem("2", "Salad Egg", 300990), Quantity: 1}), ErrViewOnly)
	assert.ErrorIs(t, c.UpdateQuantity("1", 2), ErrViewOnly)
	assert.ErrorIs(t, c.RemoveItem("1"), ErrViewOnly)
	_, err := c.Save(ctx)
	assert.ErrorIs(t, err, ErrViewOnly)

	// Edit mode keeps operations available.
	require.NoError(t, c.LoadFromHistory(ctx, o, false))
	assert.False(t, c.ViewOnly())
	assert.NoError(t, c.UpdateQuantity("1", 2))
}

func TestLoadFromHistory_EditModeSaves(t *testing.T) {
	c, orderRepo, _ := newTestComposer()
	ctx := context.Background()

	// Save an order, then drop the session entirely.
	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 2}))
	saved, err := c.Save(ctx)
	require.NoError(t, err)
	c.Deselect()

	// Reopening from history in edit mode re-selects the order's table, so
	// the edited order can be written back.
	require.NoError(t, c.LoadFromHistory(ctx, saved, false))
	require.NotNil(t, c.Table())
	assert.Equal(t, "table-1-1", c.Table().ID)

	require.NoError(t, c.UpdateQuantity("1", 5))
	updated, err := c.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, updated.ID, "re-save updates in place")
	require.Len(t, orderRepo.orders, 1)
	assert.Equal(t, 5, orderRepo.orders[0].Items[0].Quantity)
}

func TestLoadFromHistory_UnknownTableRejected(t *testing.T) {
	c, _, _ := newTestComposer()

	err := c.LoadFromHistory(context.Background(), &Order{ID: "1", TableID: "table-9-9"}, false)
	assert.ErrorIs(t, err, table.ErrNotFound)
}

func TestSessionStateMachine(t *testing.T) {
	c, _, _ := newTestComposer()
	ctx := context.Background()

	assert.Equal(t, SessionEmpty, c.State())

	_, err := c.SelectTable(ctx, "table-1-1")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1}))
	assert.Equal(t, SessionEditing, c.State())

	_, err = c.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, SessionEditing, c.State(), "editing re-enters itself on save")

	_, err = c.BeginPayment()
	require.NoError(t, err)
	assert.Equal(t, SessionAwaitingPayment, c.State())

	c.EndPayment(true)
	assert.Equal(t, SessionEmpty, c.State())
	assert.Nil(t, c.Table(), "table deselected after payment")
	assert.Nil(t, c.Current())
}

func TestBeginPayment_RequiresSavedOrder(t *testing.T) {
	c, _, _ := newTestComposer()

	_, err := c.BeginPayment()
	assert.ErrorIs(t, err, ErrNoCurrentOrder)
}

func TestApplyCode_UnknownCodeRejected(t *testing.T) {
	c, _, _ := newTestComposer()
	require.NoError(t, c.AddItem(LineItem{MenuItem: testMenuItem("1", "Salad Tuna", 500670), Quantity: 1}))

	err := c.ApplyCode("BOGUS1")
	assert.ErrorIs(t, err, discount.ErrInvalidCode)
	amount, code := c.Discount()
	assert.True(t, amount.IsZero())
	assert.Empty(t, code)
}
