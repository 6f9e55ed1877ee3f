package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"embedgate/services"
)

type EventsHandler struct {
	audit *services.OriginAudit
}

func NewEventsHandler(audit *services.OriginAudit) *EventsHandler {
	return &EventsHandler{audit: audit}
}

// List returns recent origin-validation decisions, newest first.
func (h *EventsHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 200 {
		limit = 200
	}

	events, err := h.audit.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events"})
		return
	}
	c.JSON(http.StatusOK, events)
}
