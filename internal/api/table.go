package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shineway/pos-server/internal/domain/table"
)

// ListTables returns the table grid, optionally filtered by floor or
// status. Filters are exclusive; floor wins when both are given.
func (h *Handler) ListTables(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("floor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "floor must be a number")
			return
		}
		tables, err := h.tables.GetByFloor(ctx, floor)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, tables)
		return
	}

	if raw := c.Query("status"); raw != "" {
		status, err := table.ParseStatus(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		tables, err := h.tables.GetByStatus(ctx, status)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, tables)
		return
	}

	tables, err := h.tables.GetAll(ctx)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTable returns one table by id.
func (h *Handler) GetTable(c *gin.Context) {
	t, err := h.tables.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTableStatusRequest is the body for PATCH /api/tables/:id/status.
type UpdateTableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTableStatus sets a table's status directly. This is the
// administrative path (reserve, free); the order and payment flows move
// statuses through their own side effects.
func (h *Handler) UpdateTableStatus(c *gin.Context) {
	var req UpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status required")
		return
	}

	status, err := table.ParseStatus(req.Status)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.tables.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
