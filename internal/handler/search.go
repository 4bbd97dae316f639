package handler

import (
	"net/http"

	"marketplace/internal/history"
	"marketplace/internal/middleware"
	"marketplace/internal/model"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searchService  *service.SearchService
	historyService *history.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, historyService *history.Service) *SearchHandler {
	return &SearchHandler{
		searchService:  searchService,
		historyService: historyService,
	}
}

// Search handles GET /api/v1/domains/:domain/search
//
// Filter parameters (search, category, ratingMin, ...) hydrate the session's
// filters; page, page_size and sort control the returned page.
func (h *SearchHandler) Search(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	var opts model.SearchOptions
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.searchService.Search(c.Request.Context(), middleware.SessionID(c), domain, c.Request.URL.Query(), opts)
	if err != nil {
		respondError(c, "Search failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Suggestions handles GET /api/v1/domains/:domain/suggestions?q=
func (h *SearchHandler) Suggestions(c *gin.Context) {
	domain, ok := domainParam(c)
	if !ok {
		return
	}

	q := c.Query("q")
	c.JSON(http.StatusOK, model.SuggestionsResponse{
		Query:       q,
		Suggestions: h.historyService.Suggestions(c.Request.Context(), middleware.SessionID(c), domain, q),
	})
}
