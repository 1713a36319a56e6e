package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shineway/pos-server/internal/domain/auth"
)

const claimsKey = "authClaims"

// LoginRequest is the credentials body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the authenticated user and the session token.
type LoginResponse struct {
	User  auth.User `json:"user"`
	Token string    `json:"token"`
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "username and password required")
		return
	}

	user, token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	c.JSON(http.StatusOK, LoginResponse{User: *user, Token: token})
}

// Authentication validates the bearer token and stores the claims on the
// request context for downstream handlers.
func (h *Handler) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := h.auth.ValidateToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin gates admin-only surfaces. Must run after Authentication.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsFrom(c).Role != auth.RoleAdmin {
			respondError(c, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}
