package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api/v1
func RegisterRoutes(
	router gin.IRouter,
	filterHandler *FilterHandler,
	searchHandler *SearchHandler,
	historyHandler *HistoryHandler,
	availabilityHandler *AvailabilityHandler,
) {
	apiV1 := router.Group("/api/v1")
	{
		domains := apiV1.Group("/domains/:domain")
		domains.GET("/filters", filterHandler.Get)
		domains.PUT("/filters/:field", filterHandler.SetField)
		domains.DELETE("/filters", filterHandler.Clear)
		domains.PUT("/search-term", filterHandler.SetSearchTerm)

		domains.GET("/search", searchHandler.Search)
		domains.GET("/suggestions", searchHandler.Suggestions)

		domains.GET("/history", historyHandler.List)
		domains.POST("/history", historyHandler.Track)
		domains.DELETE("/history", historyHandler.Clear)

		apiV1.GET("/providers/:id/availability", availabilityHandler.Slots)
	}
}
