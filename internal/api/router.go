package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with the full /api surface. Everything but
// login requires a valid session token; the dashboard additionally
// requires the admin role.
func (h *Handler) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	api := r.Group("/api")
	api.POST("/auth/login", h.Login)

	authed := api.Group("", h.Authentication())
	{
		authed.GET("/tables", h.ListTables)
		authed.GET("/tables/:id", h.GetTable)
		authed.PATCH("/tables/:id/status", h.UpdateTableStatus)

		authed.GET("/menu", h.ListMenu)
		authed.GET("/menu/categories", h.ListMenuCategories)
		authed.GET("/menu/:id", h.GetMenuItem)

		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)
		authed.PATCH("/orders/:id", h.PatchOrder)
		authed.DELETE("/orders/:id", h.DeleteOrder)

		authed.GET("/payments", h.ListPayments)

		authed.GET("/dashboard", h.RequireAdmin(), h.Dashboard)

		session := authed.Group("/session")
		{
			session.GET("", h.GetSession)
			session.DELETE("", h.ClearSession)
			session.POST("/table", h.SelectTable)
			session.POST("/items", h.AddItem)
			session.PATCH("/items/:menuItemId", h.UpdateItem)
			session.DELETE("/items/:menuItemId", h.RemoveItem)
			session.POST("/load/:orderId", h.LoadOrder)
			session.POST("/save", h.SaveSession)
			session.POST("/discount", h.ApplyDiscount)
			session.DELETE("/discount", h.ClearDiscount)

			pay := session.Group("/payment")
			{
				pay.POST("", h.BeginPayment)
				pay.POST("/method", h.ChoosePaymentMethod)
				pay.POST("/confirm", h.ConfirmPayment)
				pay.POST("/cancel", h.CancelPayment)
				pay.POST("/retry", h.RetryPayment)
				pay.POST("/exit", h.ExitPayment)
			}
		}
	}

	return r
}
