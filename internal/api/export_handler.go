package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/service"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /api/admin/exports?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	resource := c.Query("resource")
	if resource == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource parameter is required (subscribers, articles)"})
		return
	}
	if resource != service.ResourceSubscribers && resource != service.ResourceArticles {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resource must be one of: subscribers, articles"})
		return
	}

	format := c.Query("format")
	if format == "" {
		format = service.FormatNDJSON // Default to NDJSON for streaming
	}
	switch format {
	case service.FormatNDJSON, service.FormatJSON, service.FormatCSV, service.FormatXLSX:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: ndjson, json, csv, xlsx"})
		return
	}

	// CSV only supported for subscribers
	if format == service.FormatCSV && resource != service.ResourceSubscribers {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV format only supported for subscribers export"})
		return
	}

	h.log.Info().
		Str("resource", resource).
		Str("format", format).
		Str("user_id", currentIdentity(c).ID).
		Msg("Starting streaming export")

	var err error
	switch resource {
	case service.ResourceSubscribers:
		err = h.services.Export.StreamSubscribers(ctx, c.Writer, format)
	case service.ResourceArticles:
		err = h.services.Export.StreamArticles(ctx, c.Writer, format)
	}

	if err != nil {
		h.log.Error().Err(err).Str("resource", resource).Msg("Export failed")
		if !c.Writer.Written() {
			respondError(c, h.log, err)
		}
		// Can't return error JSON after streaming has started
		return
	}
}
