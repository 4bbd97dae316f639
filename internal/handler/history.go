package handler

import (
	"net/http"
	"strings"

	"marketplace/internal/history"
	"marketplace/internal/middleware"
	"marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

// HistoryHandler handles search history HTTP requests
type HistoryHandler struct {
	historyService *history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *history.Service) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List handles GET /api/v1/domains/:domain/history
func (h *HistoryHandler) List(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, model.HistoryResponse{
		Domain:  domain,
		Entries: h.historyService.History(c.Request.Context(), middleware.SessionID(c), domain),
	})
}

// Track handles POST /api/v1/domains/:domain/history
func (h *HistoryHandler) Track(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	var req model.TrackSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term must not be blank"})
		return
	}

	ctx := c.Request.Context()
	session := middleware.SessionID(c)
	if err := h.historyService.Track(ctx, session, domain, req.Term); err != nil {
		respondError(c, "Failed to track search", err)
		return
	}

	c.JSON(http.StatusCreated, model.HistoryResponse{
		Domain:  domain,
		Entries: h.historyService.History(ctx, session, domain),
	})
}

// Clear handles DELETE /api/v1/domains/:domain/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	if err := h.historyService.Clear(c.Request.Context(), middleware.SessionID(c), domain); err != nil {
		respondError(c, "Failed to clear history", err)
		return
	}
	c.Status(http.StatusNoContent)
}
