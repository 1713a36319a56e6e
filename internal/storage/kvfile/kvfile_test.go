package kvfile

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
)

func testOrder(id, number string) order.Order {
	created := time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	return order.Order{
		ID:          id,
		OrderNumber: number,
		TableID:     "table-1-1",
		TableName:   "B1",
		Floor:       1,
		Items: []order.LineItem{
			{
				MenuItem: menu.Item{
					ID:       "1",
					Name:     "Salad Tuna",
					Price:    decimal.NewFromInt(500670),
					Category: "Salad",
				},
				Quantity: 2,
			},
		},
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentUnpaid,
		CreatedAt:     created,
		UpdatedAt:     created,
		Total:         decimal.NewFromInt(1001340),
		Discount:      decimal.Zero,
		FinalTotal:    decimal.NewFromInt(1001340),
		StaffName:     "Nguyễn Văn A",
	}
}

func TestTableRepository_SeedOnce(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewTableRepository(store)

	grid := []table.Table{
		{ID: "table-1-1", Number: "B1", Status: table.StatusEmpty, Floor: 1},
		{ID: "table-1-2", Number: "B2", Status: table.StatusEmpty, Floor: 1},
	}
	require.NoError(t, repo.Seed(ctx, grid))

	_, err = repo.UpdateStatus(ctx, "table-1-2", table.StatusInUse)
	require.NoError(t, err)

	// Seeding again must not wipe the status change.
	require.NoError(t, repo.Seed(ctx, grid))

	got, err := repo.GetByID(ctx, "table-1-2")
	require.NoError(t, err)
	require.Equal(t, table.StatusInUse, got.Status)
}

func TestTableRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewTableRepository(store)

	_, err = repo.GetByID(ctx, "table-9-9")
	require.ErrorIs(t, err, table.ErrNotFound)

	_, err = repo.UpdateStatus(ctx, "table-9-9", table.StatusEmpty)
	require.ErrorIs(t, err, table.ErrNotFound)
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	repo := NewOrderRepository(store)

	o := testOrder("1715506200000000001", "ORD001")
	require.NoError(t, repo.Create(ctx, &o))

	// Reopen over the same directory: everything must come back typed,
	// including timestamps and amounts.
	store, err = Open(dir)
	require.NoError(t, err)
	repo = NewOrderRepository(store)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "ORD001", got.OrderNumber)
	require.Equal(t, order.StatusPending, got.Status)
	require.True(t, o.CreatedAt.Equal(got.CreatedAt))
	require.True(t, got.Total.Equal(decimal.NewFromInt(1001340)))
	require.Len(t, got.Items, 1)
	require.Equal(t, "Salad Tuna", got.Items[0].MenuItem.Name)
	require.True(t, got.Items[0].MenuItem.Price.Equal(decimal.NewFromInt(500670)))
}

func TestOrderRepository_ReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewOrderRepository(store)

	first := testOrder("1", "ORD001")
	second := testOrder("2", "ORD002")
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	first.PaymentStatus = order.PaymentPaid
	require.NoError(t, repo.Replace(ctx, &first))

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, order.PaymentPaid, got.PaymentStatus)

	missing := testOrder("404", "ORD404")
	require.ErrorIs(t, repo.Replace(ctx, &missing), order.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "1"))
	require.ErrorIs(t, repo.Delete(ctx, "1"), order.ErrNotFound)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "2", orders[0].ID)
}

func TestOrderRepository_EmptyStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewOrderRepository(store)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, orders)

	_, err = repo.GetByID(ctx, "1")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestPaymentRepository_ByOrderID(t *testing.T) {
	ctx := context.Background()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	repo := NewPaymentRepository(store)

	created := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &payment.Payment{
		ID:            "p1",
		OrderID:       "1",
		Amount:        decimal.NewFromInt(370000),
		Method:        payment.MethodCash,
		Status:        "success",
		TransactionID: "t1",
		CreatedAt:     created,
	}))
	require.NoError(t, repo.Create(ctx, &payment.Payment{
		ID:        "p2",
		OrderID:   "2",
		Amount:    decimal.NewFromInt(100),
		Method:    payment.MethodCard,
		Status:    "success",
		CreatedAt: created,
	}))

	got, err := repo.ByOrderID(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ID)
	require.True(t, got[0].Amount.Equal(decimal.NewFromInt(370000)))
	require.Equal(t, payment.MethodCash, got[0].Method)

	none, err := repo.ByOrderID(ctx, "404")
	require.NoError(t, err)
	require.Empty(t, none)
}
