package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"drought-watch-api/services"
	"drought-watch-api/store"

	"github.com/gin-gonic/gin"
)

// ParseListParams reads page/limit/sort/severity from the query string.
// Absent page and limit fall back to the defaults; present-but-non-numeric
// values are an error. Limits above services.MaxLimit are clamped here so
// every listing endpoint caps its page size; the remaining range checks
// happen in the service.
func ParseListParams(c *gin.Context) (services.ListParams, error) {
	p := services.ListParams{
		Page:     services.DefaultPage,
		Limit:    services.DefaultLimit,
		Sort:     c.Query("sort"),
		Severity: c.Query("severity"),
	}

	if pageStr := c.Query("page"); pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil {
			return p, fmt.Errorf("page must be an integer")
		}
		p.Page = n
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return p, fmt.Errorf("limit must be an integer")
		}
		p.Limit = n
	}
	if p.Limit > services.MaxLimit {
		p.Limit = services.MaxLimit
	}

	return p, nil
}

// ParseID reads the numeric :id path parameter.
func ParseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id")
	}
	return uint(id), nil
}

// parseDateParam accepts a plain date or a full RFC 3339 timestamp.
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// respondError maps the service error taxonomy onto HTTP statuses. Store
// failures are logged here and surface as a generic 500.
func respondError(c *gin.Context, err error, notFoundMsg string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	default:
		log.Printf("store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
