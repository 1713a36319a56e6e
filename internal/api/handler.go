// Package api exposes the POS operations over HTTP. Reference data and
// order history are plain REST resources; the order composer and the
// payment dialog are modeled as one server-held session per staff account,
// mirroring the original's single-terminal interaction.
package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/shineway/pos-server/internal/domain/auth"
	"github.com/shineway/pos-server/internal/domain/discount"
	"github.com/shineway/pos-server/internal/domain/menu"
	"github.com/shineway/pos-server/internal/domain/order"
	"github.com/shineway/pos-server/internal/domain/payment"
	"github.com/shineway/pos-server/internal/domain/table"
)

// Handler carries the domain services behind the HTTP surface.
type Handler struct {
	auth       *auth.Service
	catalog    *menu.Catalog
	tables     *table.Registry
	orders     *order.Store
	payments   payment.Repository
	discounter *discount.Service

	metrics Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// Metrics receives domain-level counter hooks from the handler. Nil hooks
// are skipped, so tests can leave the whole struct unset.
type Metrics struct {
	OrderSaved       func(ctx context.Context)
	PaymentCommitted func(ctx context.Context)
}

// SetMetrics installs the counter hooks. Call before serving.
func (h *Handler) SetMetrics(m Metrics) { h.metrics = m }

// Session is one staff terminal: the composer plus the payment dialog open
// on top of it. All access is serialized by the mutex, matching the domain
// types' single-writer assumption.
type Session struct {
	mu       sync.Mutex
	composer *order.Composer
	flow     *payment.Flow
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	authSvc *auth.Service,
	catalog *menu.Catalog,
	tables *table.Registry,
	orders *order.Store,
	payments payment.Repository,
	discounter *discount.Service,
) *Handler {
	return &Handler{
		auth:       authSvc,
		catalog:    catalog,
		tables:     tables,
		orders:     orders,
		payments:   payments,
		discounter: discounter,
		sessions:   make(map[string]*Session),
	}
}

// session returns the staff account's terminal session, creating it on
// first use.
func (h *Handler) session(claims *auth.Claims) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[claims.Username]
	if !ok {
		s = &Session{
			composer: order.NewComposer(h.orders, h.tables, h.discounter, claims.Name),
		}
		h.sessions[claims.Username] = s
	}
	return s
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: status, Message: message})
}

// respondDomainError maps domain errors onto HTTP statuses. Unrecognized
// errors are logged and masked as 500.
func respondDomainError(c *gin.Context, err error) {
	var transition *payment.TransitionError
	switch {
	case errors.Is(err, menu.ErrNotFound),
		errors.Is(err, table.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrNoTableSelected),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrViewOnly),
		errors.Is(err, order.ErrNoCurrentOrder),
		errors.Is(err, discount.ErrInvalidCode):
		respondError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &transition):
		respondError(c, http.StatusConflict, transition.Error())
	default:
		zctx.From(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
