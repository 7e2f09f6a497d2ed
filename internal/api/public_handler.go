package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/service"
)

// PublicHandler serves the public site: published content, newsletter
// signup and page view tracking.
type PublicHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// ListArticles handles GET /api/articles?category=...&limit=...
func (h *PublicHandler) ListArticles(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	articles, err := h.services.Content.PublishedArticles(c.Request.Context(), models.Category(c.Query("category")), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle handles GET /api/articles/:slug
func (h *PublicHandler) GetArticle(c *gin.Context) {
	article, err := h.services.Content.ArticleBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListProjects handles GET /api/projects
func (h *PublicHandler) ListProjects(c *gin.Context) {
	projects, err := h.services.Content.Projects(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// GetProject handles GET /api/projects/:slug
func (h *PublicHandler) GetProject(c *gin.Context) {
	project, err := h.services.Content.ProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListTeam handles GET /api/team
func (h *PublicHandler) ListTeam(c *gin.Context) {
	members, err := h.services.Content.Team(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Subscribe handles POST /api/newsletter/subscribe
func (h *PublicHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sub, err := h.services.Newsletter.Subscribe(c.Request.Context(), req.Email, clientIP(c), c.GetHeader("User-Agent"))
	if errors.Is(err, models.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "this email address is already registered"})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": sub})
}

// Track handles POST /api/analytics/track
func (h *PublicHandler) Track(c *gin.Context) {
	var pv models.PageView
	if err := c.ShouldBindJSON(&pv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if pv.UserAgent == "" {
		pv.UserAgent = c.GetHeader("User-Agent")
	}

	if err := h.services.Analytics.Track(c.Request.Context(), pv); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// clientIP prefers the proxy headers set in front of the site
func clientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

// queryInt parses an optional integer query parameter, writing a 400 on bad input
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}
