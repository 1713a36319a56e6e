package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/table"
)

// DashboardResponse is the admin summary: order counts, settled revenue,
// and table occupancy.
type DashboardResponse struct {
	Orders struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Completed int `json:"completed"`
		Cancelled int `json:"cancelled"`
		Unpaid    int `json:"unpaid"`
	} `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
	Tables  struct {
		Total    int `json:"total"`
		Empty    int `json:"empty"`
		InUse    int `json:"inUse"`
		Reserved int `json:"reserved"`
	} `json:"tables"`
}

// Dashboard computes the summary figures from the stores. Revenue counts
// paid orders only.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := h.orders.GetAll(ctx)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	tables, err := h.tables.GetAll(ctx)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var resp DashboardResponse
	resp.Revenue = decimal.Zero

	resp.Orders.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case order.StatusPending:
			resp.Orders.Pending++
		case order.StatusCompleted:
			resp.Orders.Completed++
		case order.StatusCancelled:
			resp.Orders.Cancelled++
		}
		switch o.PaymentStatus {
		case order.PaymentPaid:
			resp.Revenue = resp.Revenue.Add(o.FinalTotal)
		case order.PaymentUnpaid:
			resp.Orders.Unpaid++
		}
	}

	resp.Tables.Total = len(tables)
	for _, t := range tables {
		switch t.Status {
		case table.StatusEmpty:
			resp.Tables.Empty++
		case table.StatusInUse:
			resp.Tables.InUse++
		case table.StatusReserved:
			resp.Tables.Reserved++
		}
	}

	c.JSON(http.StatusOK, resp)
}
