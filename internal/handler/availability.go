package handler

import (
	"net/http"
	"strconv"
	"time"

	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler handles provider availability HTTP requests
type AvailabilityHandler struct {
	availabilityService *service.AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(availabilityService *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// Slots handles GET /api/v1/providers/:id/availability?date=YYYY-MM-DD&granularity=minutes
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date parameter"})
		return
	}

	var granularity time.Duration
	if raw := c.Query("granularity"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 || minutes > 24*60 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid granularity, expected minutes between 1 and 1440"})
			return
		}
		granularity = time.Duration(minutes) * time.Minute
	}

	response, err := h.availabilityService.Slots(c.Request.Context(), c.Param("id"), date, granularity)
	if err != nil {
		respondError(c, "Failed to get availability", err)
		return
	}
	c.JSON(http.StatusOK, response)
}
