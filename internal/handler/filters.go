package handler

import (
	"net/http"

	"marketplace/internal/middleware"
	"marketplace/internal/model"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// FilterHandler handles filter state HTTP requests
type FilterHandler struct {
	filterService *service.FilterService
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(filterService *service.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

// Get handles GET /api/v1/domains/:domain/filters
func (h *FilterHandler) Get(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	response, err := h.filterService.Current(c.Request.Context(), middleware.SessionID(c), domain, c.Request.URL.Query())
	if err != nil {
		respondError(c, "Failed to load filters", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SetField handles PUT /api/v1/domains/:domain/filters/:field
func (h *FilterHandler) SetField(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	var req model.SetFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.filterService.SetFilter(c.Request.Context(), middleware.SessionID(c), domain, c.Param("field"), req)
	if err != nil {
		respondError(c, "Failed to set filter", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// SetSearchTerm handles PUT /api/v1/domains/:domain/search-term
func (h *FilterHandler) SetSearchTerm(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	var req model.SearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.filterService.SetSearch(c.Request.Context(), middleware.SessionID(c), domain, req.Term)
	if err != nil {
		respondError(c, "Failed to set search term", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Clear handles DELETE /api/v1/domains/:domain/filters
func (h *FilterHandler) Clear(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	response, err := h.filterService.Clear(c.Request.Context(), middleware.SessionID(c), domain)
	if err != nil {
		respondError(c, "Failed to clear filters", err)
		return
	}
	c.JSON(http.StatusOK, response)
}
