package handler

import (
	"errors"
	"net/http"

	"marketplace/internal/availability"
	"marketplace/internal/filter"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, prefix string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, filter.ErrUnknownDomain), errors.Is(err, filter.ErrUnknownField):
		status = http.StatusNotFound
	case errors.Is(err, filter.ErrKindMismatch), errors.Is(err, availability.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrSuperseded):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": prefix + ": " + err.Error()})
}

// domainParam resolves the :domain path parameter
func domainParam(c *gin.Context) (filter.Domain, bool) {
	domain, err := filter.ParseDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown domain: " + c.Param("domain")})
		return "", false
	}
	return domain, true
}
