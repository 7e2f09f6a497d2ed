package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/service"
)

// AdminHandler handles the editor endpoints behind the session gate
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// ListArticles handles GET /api/admin/articles?category=...
func (h *AdminHandler) ListArticles(c *gin.Context) {
	articles, err := h.services.Article.List(c.Request.Context(), models.Category(c.Query("category")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle handles GET /api/admin/articles/:id
func (h *AdminHandler) GetArticle(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// CreateArticle handles POST /api/admin/articles
func (h *AdminHandler) CreateArticle(c *gin.Context) {
	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.services.Article.Save(c.Request.Context(), input, nil, currentIdentity(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateArticle handles PUT /api/admin/articles/:id
func (h *AdminHandler) UpdateArticle(c *gin.Context) {
	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.services.Article.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	id, err := h.services.Article.Save(ctx, input, existing, currentIdentity(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteArticle handles DELETE /api/admin/articles/:id
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id"), currentIdentity(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ArticleHistory handles GET /api/admin/articles/:id/history?limit=...
func (h *AdminHandler) ArticleHistory(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	entries, err := h.services.History.List(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.services.Article.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Analytics handles GET /api/admin/analytics?days=...
func (h *AdminHandler) Analytics(c *gin.Context) {
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}

	summary, err := h.services.Analytics.Summary(c.Request.Context(), days)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
