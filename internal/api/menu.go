package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListMenu returns catalog items. The q parameter searches name and
// description case-insensitively; category narrows to one category. An
// empty q lists everything.
func (h *Handler) ListMenu(c *gin.Context) {
	ctx := c.Request.Context()

	if category := c.Query("category"); category != "" {
		items, err := h.catalog.ByCategory(ctx, category)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := h.catalog.Search(ctx, c.Query("q"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListMenuCategories returns the catalog grouped by category, in
// first-seen order.
func (h *Handler) ListMenuCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetMenuItem returns one catalog item by id.
func (h *Handler) GetMenuItem(c *gin.Context) {
	item, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
