package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPayments returns the settlement records for one order.
func (h *Handler) ListPayments(c *gin.Context) {
	orderID := c.Query("orderId")
	if orderID == "" {
		respondError(c, http.StatusBadRequest, "orderId required")
		return
	}

	payments, err := h.payments.ByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
