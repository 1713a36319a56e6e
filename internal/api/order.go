package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shineway/pos-server/internal/domain/order"
)

// ListOrders returns order history, optionally filtered by table, status,
// or payment status. Filters are exclusive, first match wins.
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	if tableID := c.Query("tableId"); tableID != "" {
		orders, err := h.orders.ByTable(ctx, tableID)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	if raw := c.Query("status"); raw != "" {
		status, err := order.ParseStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		orders, err := h.orders.ByStatus(ctx, status)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	if raw := c.Query("paymentStatus"); raw != "" {
		status, err := order.ParsePaymentStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		orders, err := h.orders.ByPaymentStatus(ctx, status)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	orders, err := h.orders.GetAll(ctx)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order by id.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// PatchOrderRequest is the body for PATCH /api/orders/:id. Absent fields
// are left untouched.
type PatchOrderRequest struct {
	Status       *string `json:"status"`
	CustomerName *string `json:"customerName"`
	Notes        *string `json:"notes"`
}

// PatchOrder updates the administrative order fields: lifecycle status
// (completed, cancelled), customer name, and notes. Items and totals change
// only through the composer session.
func (h *Handler) PatchOrder(c *gin.Context) {
	var req PatchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	var patch order.Patch
	if req.Status != nil {
		status, err := order.ParseStatus(*req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		patch.Status = &status
	}
	patch.CustomerName = req.CustomerName
	patch.Notes = req.Notes

	o, err := h.orders.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// DeleteOrder removes an order from history.
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
