package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
)

// SessionView is the composer snapshot returned by every session endpoint,
// so the client always renders from the latest server state.
type SessionView struct {
	Table        *table.Table       `json:"table"`
	Items        []order.LineItem   `json:"items"`
	Notes        string             `json:"notes,omitempty"`
	Total        decimal.Decimal    `json:"total"`
	Discount     decimal.Decimal    `json:"discount"`
	DiscountCode string             `json:"discountCode,omitempty"`
	FinalTotal   decimal.Decimal    `json:"finalTotal"`
	ItemCount    int                `json:"itemCount"`
	State        order.SessionState `json:"state"`
	ViewOnly     bool               `json:"viewOnly"`
	Order        *order.Order       `json:"order,omitempty"`
	Payment      *PaymentView       `json:"payment,omitempty"`
}

// PaymentView is the open payment dialog's state within a session view.
type PaymentView struct {
	State  payment.State  `json:"state"`
	Method payment.Method `json:"method,omitempty"`
}

func snapshot(s *Session) SessionView {
	discountAmount, discountCode := s.composer.Discount()
	view := SessionView{
		Table:        s.composer.Table(),
		Items:        s.composer.Items(),
		Notes:        s.composer.Notes(),
		Total:        s.composer.Total(),
		Discount:     discountAmount,
		DiscountCode: discountCode,
		FinalTotal:   s.composer.FinalTotal(),
		ItemCount:    s.composer.ItemCount(),
		State:        s.composer.State(),
		ViewOnly:     s.composer.ViewOnly(),
		Order:        s.composer.Current(),
	}
	if s.flow != nil {
		view.Payment = &PaymentView{State: s.flow.State(), Method: s.flow.Method()}
	}
	return view
}

// GetSession returns the current composer snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, snapshot(s))
}

// guardNoPayment rejects composer mutations while a payment dialog is
// open. The dialog must be exited first.
func guardNoPayment(c *gin.Context, s *Session) bool {
	if s.flow != nil {
		respondError(c, http.StatusConflict, "payment in progress")
		return false
	}
	return true
}

// SelectTableRequest is the body for POST /api/session/table.
type SelectTableRequest struct {
	TableID string `json:"tableId" binding:"required"`
}

// SelectTable switches the session to a table. Unsaved edits for the
// previous table are discarded; an in-use table loads its unpaid order.
func (h *Handler) SelectTable(c *gin.Context) {
	var req SelectTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "tableId required")
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if _, err := s.composer.SelectTable(c.Request.Context(), req.TableID); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// AddItemRequest is the body for POST /api/session/items.
type AddItemRequest struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// AddItem adds a catalog item to the order, merging with an existing line
// for the same item.
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "menuItemId required")
		return
	}

	item, err := h.catalog.GetByID(c.Request.Context(), req.MenuItemID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if err := s.composer.AddItem(order.LineItem{
		MenuItem: *item,
		Quantity: req.Quantity,
		Notes:    req.Notes,
	}); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// UpdateItemRequest is the body for PATCH /api/session/items/:menuItemId.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets a line's quantity exactly; zero or below removes it.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if err := s.composer.UpdateQuantity(c.Param("menuItemId"), req.Quantity); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// RemoveItem deletes a line from the order. Removing an absent line is a
// no-op, matching the composer.
func (h *Handler) RemoveItem(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if err := s.composer.RemoveItem(c.Param("menuItemId")); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// ClearSession drops the whole session: items, discount, notes, and the
// table selection.
func (h *Handler) ClearSession(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	s.composer.Deselect()
	c.JSON(http.StatusOK, snapshot(s))
}

// LoadOrderRequest is the body for POST /api/session/load/:orderId.
type LoadOrderRequest struct {
	FromSidebar bool `json:"fromSidebar"`
}

// LoadOrder replaces the session with a persisted order. fromSidebar opens
// it read-only, the history sidebar's inspection mode.
func (h *Handler) LoadOrder(c *gin.Context) {
	var req LoadOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	o, err := h.orders.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if err := s.composer.LoadFromHistory(c.Request.Context(), o, req.FromSidebar); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// SaveSessionRequest is the body for POST /api/session/save. Notes is a
// pointer: an absent field keeps the session notes, an empty string clears
// them.
type SaveSessionRequest struct {
	Notes *string `json:"notes"`
}

// SaveSession writes the composed order through to the store: creates it
// on first save and flips the table to inUse, updates it in place after.
func (h *Handler) SaveSession(c *gin.Context) {
	var req SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, http.StatusBadRequest, "invalid body")
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if req.Notes != nil {
		s.composer.SetNotes(*req.Notes)
	}
	if _, err := s.composer.Save(c.Request.Context()); err != nil {
		respondDomainError(c, err)
		return
	}
	if h.metrics.OrderSaved != nil {
		h.metrics.OrderSaved(c.Request.Context())
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// ApplyDiscountRequest is the body for POST /api/session/discount.
type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyDiscount applies a promo code to the session.
func (h *Handler) ApplyDiscount(c *gin.Context) {
	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "code required")
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	if err := s.composer.ApplyCode(req.Code); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// ClearDiscount drops the applied promo code.
func (h *Handler) ClearDiscount(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if !guardNoPayment(c, s) {
		return
	}

	s.composer.ClearDiscount()
	c.JSON(http.StatusOK, snapshot(s))
}

// BeginPayment opens the payment dialog for the saved current order.
func (h *Handler) BeginPayment(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flow != nil {
		respondError(c, http.StatusConflict, "payment already in progress")
		return
	}

	flow, err := payment.NewFlow(h.orders, h.tables, h.payments, s.composer)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	s.flow = flow
	c.JSON(http.StatusOK, snapshot(s))
}

// requireFlow fetches the open payment dialog, or responds 409.
func requireFlow(c *gin.Context, s *Session) *payment.Flow {
	if s.flow == nil {
		respondError(c, http.StatusConflict, "no payment in progress")
		return nil
	}
	return s.flow
}

// PaymentMethodRequest is the body for POST /api/session/payment/method.
type PaymentMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// ChoosePaymentMethod records the method and advances the dialog: transfer
// shows the code screen, cash and card settle directly.
func (h *Handler) ChoosePaymentMethod(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "method required")
		return
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	flow := requireFlow(c, s)
	if flow == nil {
		return
	}

	if err := flow.Continue(method); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// ConfirmPayment settles from the transfer-code screen.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	flow := requireFlow(c, s)
	if flow == nil {
		return
	}

	if err := flow.Confirm(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// CancelPayment forces the failed outcome screen.
func (h *Handler) CancelPayment(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	flow := requireFlow(c, s)
	if flow == nil {
		return
	}

	if err := flow.Cancel(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// RetryPayment returns from the failed screen to method selection.
func (h *Handler) RetryPayment(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	flow := requireFlow(c, s)
	if flow == nil {
		return
	}

	if err := flow.Retry(); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// ExitPaymentResponse reports whether exiting committed the payment.
type ExitPaymentResponse struct {
	Committed bool        `json:"committed"`
	Session   SessionView `json:"session"`
}

// ExitPayment closes the dialog from an outcome screen. Success-exit
// commits everything; failed-exit leaves the order unpaid and current.
func (h *Handler) ExitPayment(c *gin.Context) {
	s := h.session(claimsFrom(c))
	s.mu.Lock()
	defer s.mu.Unlock()
	flow := requireFlow(c, s)
	if flow == nil {
		return
	}

	committed, err := flow.Exit(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	s.flow = nil
	if committed && h.metrics.PaymentCommitted != nil {
		h.metrics.PaymentCommitted(c.Request.Context())
	}
	c.JSON(http.StatusOK, ExitPaymentResponse{Committed: committed, Session: snapshot(s)})
}
