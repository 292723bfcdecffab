package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/depot-sh/depot/internal/auth"
	"github.com/depot-sh/depot/pkg/logging"
	"github.com/depot-sh/depot/pkg/types"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "depot_session"

// AuthHandler owns login/logout and the session-checking middleware.
// Uploads go through the same middleware as reads: there is no
// unauthenticated drop box.
type AuthHandler struct {
	store    *auth.Store
	sessions *auth.Sessions
	logger   *logging.Logger
}

func NewAuthHandler(store *auth.Store, sessions *auth.Sessions, logger *logging.Logger) *AuthHandler {
	return &AuthHandler{store: store, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the unauthenticated auth endpoints.
func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/login", h.Login)
	router.POST("/api/logout", h.Logout)
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "username and password required"})
		return
	}

	if !h.store.Verify(req.Username, req.Password) {
		h.logger.Warn("login failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "invalid credentials"})
		return
	}

	token := h.sessions.Create(req.Username)
	c.SetCookie(SessionCookie, token, 0, "/", "", false, true)
	h.logger.Info("login", "username", req.Username)
	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}

// Logout revokes the current session, if any.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		h.sessions.Revoke(token)
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// Middleware rejects requests without a live session.
func (h *AuthHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Error: "authentication required"})
			return
		}
		username, ok := h.sessions.Lookup(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Error: "session expired"})
			return
		}
		c.Set("username", username)
		c.Next()
	}
}
