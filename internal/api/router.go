package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/service"
)

const serviceName = "association-site-api"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS))

	// Handlers
	authHandler := NewAuthHandler(services, cfg.Session, log)
	publicHandler := NewPublicHandler(services, log)
	adminHandler := NewAdminHandler(services, log)
	exportHandler := NewExportHandler(services, log)
	eventsHandler := NewEventsHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	requireSession := sessionMiddleware(services.Auth, cfg.Session.CookieName)

	apiGroup := router.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireSession, authHandler.Me)
		}

		apiGroup.GET("/articles", publicHandler.ListArticles)
		apiGroup.GET("/articles/:slug", publicHandler.GetArticle)
		apiGroup.GET("/projects", publicHandler.ListProjects)
		apiGroup.GET("/projects/:slug", publicHandler.GetProject)
		apiGroup.GET("/team", publicHandler.ListTeam)
		apiGroup.POST("/newsletter/subscribe", publicHandler.Subscribe)
		apiGroup.POST("/analytics/track", publicHandler.Track)

		admin := apiGroup.Group("/admin", requireSession)
		{
			articles := admin.Group("/articles")
			{
				articles.GET("", adminHandler.ListArticles)
				articles.POST("", adminHandler.CreateArticle)
				articles.GET("/:id", adminHandler.GetArticle)
				articles.PUT("/:id", adminHandler.UpdateArticle)
				articles.DELETE("/:id", adminHandler.DeleteArticle)
				articles.GET("/:id/history", adminHandler.ArticleHistory)
			}

			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/analytics", adminHandler.Analytics)
			admin.GET("/exports", exportHandler.StreamExport)
			admin.GET("/events", eventsHandler.Stream)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

// metricsHandler returns content counters
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		subscribersCount, _ := services.Export.GetCount(ctx, service.ResourceSubscribers)
		articlesCount, _ := services.Export.GetCount(ctx, service.ResourceArticles)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"subscribers": subscribersCount,
				"articles":    articlesCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
