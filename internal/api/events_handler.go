package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/service"
	"github.com/association-site-api/internal/store"
)

const (
	eventBuffer       = 64
	heartbeatInterval = 25 * time.Second
)

// feedTables are the tables a client may follow; "" follows all of them
var feedTables = map[string]bool{
	"":                        true,
	store.TableArticles:       true,
	store.TableArticleHistory: true,
	store.TableProjects:       true,
	store.TableTeamMembers:    true,
	store.TableSubscribers:    true,
}

// EventsHandler streams store changes to admin clients as Server-Sent Events
type EventsHandler struct {
	services  *service.Services
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(services *service.Services, log zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		services:  services,
		heartbeat: heartbeatInterval,
		log:       log.With().Str("handler", "events").Logger(),
	}
}

// Stream handles GET /api/admin/events?table=...
func (h *EventsHandler) Stream(c *gin.Context) {
	table := c.Query("table")
	if !feedTables[table] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table"})
		return
	}

	changes := make(chan store.Change, eventBuffer)
	cancel := h.services.Changes.Subscribe(table, func(ch store.Change) {
		select {
		case changes <- ch:
		default:
			h.log.Warn().Str("table", ch.Table).Str("id", ch.ID).Msg("Slow event client, change dropped")
		}
	})
	defer cancel()

	h.log.Info().Str("table", table).Str("user_id", currentIdentity(c).ID).Msg("Event stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"table": table})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ch := <-changes:
			c.SSEvent("change", ch)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})

	h.log.Info().Str("table", table).Msg("Event stream closed")
}
