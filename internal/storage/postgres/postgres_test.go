//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
)

// Tests run against a live database named by TEST_DATABASE_URL and are
// skipped when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))

	_, err = pool.Exec(ctx, `TRUNCATE payments, orders, tables, menu_items`)
	require.NoError(t, err)

	return pool
}

func TestTableRepository(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewTableRepository(pool)

	grid := []table.Table{
		{ID: "table-1-1", Number: "B1", Status: table.StatusEmpty, Floor: 1},
		{ID: "table-2-1", Number: "B1", Status: table.StatusEmpty, Floor: 2},
	}
	require.NoError(t, repo.Seed(ctx, grid))

	updated, err := repo.UpdateStatus(ctx, "table-1-1", table.StatusInUse)
	require.NoError(t, err)
	require.Equal(t, table.StatusInUse, updated.Status)

	// A second seed must not reset statuses.
	require.NoError(t, repo.Seed(ctx, grid))

	got, err := repo.GetByID(ctx, "table-1-1")
	require.NoError(t, err)
	require.Equal(t, table.StatusInUse, got.Status)

	_, err = repo.GetByID(ctx, "table-9-9")
	require.ErrorIs(t, err, table.ErrNotFound)
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewOrderRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	o := order.Order{
		ID:          "1",
		OrderNumber: "ORD001",
		TableID:     "table-1-1",
		TableName:   "B1",
		Floor:       1,
		Items: []order.LineItem{
			{
				MenuItem: menu.Item{
					ID:       "3",
					Name:     "Wagyu Sate",
					Price:    decimal.NewFromInt(270320),
					Category: "Wagyu",
				},
				Quantity: 3,
			},
		},
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
		Total:         decimal.NewFromInt(810960),
		Discount:      decimal.NewFromInt(30000),
		DiscountCode:  "XVYZ6H",
		FinalTotal:    decimal.NewFromInt(780960),
		StaffName:     "Nguyễn Văn A",
	}
	require.NoError(t, repo.Create(ctx, &o))

	got, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "ORD001", got.OrderNumber)
	require.True(t, got.FinalTotal.Equal(decimal.NewFromInt(780960)))
	require.Len(t, got.Items, 1)
	require.Equal(t, 3, got.Items[0].Quantity)
	require.True(t, got.Items[0].MenuItem.Price.Equal(decimal.NewFromInt(270320)))

	o.PaymentStatus = order.PaymentPaid
	o.PaymentMethod = "cash"
	require.NoError(t, repo.Replace(ctx, &o))

	got, err = repo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, order.PaymentPaid, got.PaymentStatus)

	missing := o
	missing.ID = "404"
	require.ErrorIs(t, repo.Replace(ctx, &missing), order.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "1"))
	require.ErrorIs(t, repo.Delete(ctx, "1"), order.ErrNotFound)
}

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	orders := NewOrderRepository(pool)
	require.NoError(t, orders.Create(ctx, &order.Order{
		ID: "1", OrderNumber: "ORD001", TableID: "table-1-1", TableName: "B1",
		Floor: 1, Items: []order.LineItem{}, Status: order.StatusPending,
		PaymentStatus: order.PaymentPaid, CreatedAt: now, UpdatedAt: now,
		Total: decimal.NewFromInt(370000), FinalTotal: decimal.NewFromInt(370000),
		StaffName: "Nguyễn Văn A",
	}))

	repo := NewPaymentRepository(pool)
	require.NoError(t, repo.Create(ctx, &payment.Payment{
		ID:            "p1",
		OrderID:       "1",
		Amount:        decimal.NewFromInt(370000),
		Method:        payment.MethodTransfer,
		Status:        "success",
		TransactionID: "t1",
		CreatedAt:     now,
	}))

	got, err := repo.ByOrderID(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, payment.MethodTransfer, got[0].Method)
	require.True(t, got[0].Amount.Equal(decimal.NewFromInt(370000)))
}

func TestMenuRepository(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)

	_, err := pool.Exec(ctx, `INSERT INTO menu_items (id, name, price, image, category, description)
		VALUES ('1', 'Salad Tuna', 500670, '', 'Salad', '')`)
	require.NoError(t, err)

	repo := NewMenuRepository(pool)
	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].Price.Equal(decimal.NewFromInt(500670)))

	_, err = repo.GetByID(ctx, "404")
	require.ErrorIs(t, err, menu.ErrNotFound)
}
