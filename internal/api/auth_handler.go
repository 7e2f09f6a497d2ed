package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/service"
	"github.com/association-site-api/internal/validation"
)

// AuthHandler handles login, logout and the current session
type AuthHandler struct {
	services *service.Services
	session  config.SessionConfig
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, session config.SessionConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		session:  session,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := validation.ValidateCredentials(req.Username, req.Password); len(errs) > 0 {
		respondError(c, h.log, models.NewValidationErrors(errs))
		return
	}

	identity, err := h.services.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.services.Auth.IssueSession(identity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ttl := h.services.Auth.SessionTTL()
	h.setSessionCookie(c, token, int(ttl.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"user":       identity,
		"token":      token,
		"expires_at": time.Now().Add(ttl).UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /api/auth/logout by expiring the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentIdentity(c)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, value, maxAge, "/", "", h.session.CookieSecure, true)
}
