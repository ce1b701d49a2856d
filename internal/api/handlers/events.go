package handlers

import (
	"net/http"
	"strconv"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultEventLimit = 100

// EventsHandler serves the platform event log to indexer clients
type EventsHandler struct {
	events *service.EventService
	logger *zap.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(events *service.EventService, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		events: events,
		logger: logger,
	}
}

// ListEvents returns events newest first
// @Summary List events
// @Description List platform events newest first, optionally filtered by type
// @Produce json
// @Param type query string false "Event type filter"
// @Param limit query int false "Maximum number of events"
// @Success 200 {array} models.Event
// @Router /api/v1/events [get]
func (h *EventsHandler) ListEvents(c *gin.Context) {
	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := h.events.ListEvents(c.Query("type"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
