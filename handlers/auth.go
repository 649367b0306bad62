package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inksign/inksign/internal/config"
	"github.com/inksign/inksign/internal/sessions"
	"github.com/inksign/inksign/internal/tokens"
	"github.com/inksign/inksign/internal/users"
	"github.com/inksign/inksign/pkg/logger"
	"github.com/inksign/inksign/pkg/metrics"
	"github.com/inksign/inksign/pkg/middleware"
)

// cookie lifetime matches the access-token TTL (24h)
const authCookieMaxAge = 86400

// LoginRequest carries the login claim.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u}
}

// Register routes under /api/auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/api/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
}

// Login validates the email/password claim and issues an access token. The
// token is returned in the body and duplicated in the auth cookie for
// server-mediated requests.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrMissingCredentials):
			metrics.LoginAttempts.WithLabelValues("missing").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		case errors.Is(err, users.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			logger.Errorf("login failed: %v", err)
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		}
		return
	}

	token, err := tokens.Issue(h.cfg.JWT.Secret, u, h.cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Errorf("failed to issue access token: %v", err)
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	h.setAuthCookie(c, token, authCookieMaxAge)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "email": u.Email, "name": u.Name},
	})
}

// Logout clears the auth cookie. Tokens are stateless; when Redis is
// configured the presented token is additionally blacklisted for its
// remaining lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := middleware.BearerToken(c); raw != "" {
		if ttl, err := tokens.RemainingTTL(h.cfg.JWT.Secret, raw); err == nil && ttl > 0 {
			if err := sessions.BlacklistAccessToken(c.Request.Context(), raw, ttl); err != nil {
				logger.Warnf("failed to blacklist access token: %v", err)
			}
		}
	}
	h.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", h.cfg.IsProduction(), true)
}
