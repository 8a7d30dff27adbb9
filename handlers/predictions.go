package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"drought-watch-api/middleware"
	"drought-watch-api/models"
	"drought-watch-api/services"

	"github.com/gin-gonic/gin"
)

// LiveChannel carries create/update/delete events for the websocket feed.
const LiveChannel = "droughtwatch:live"

const recordCacheTTL = 60 * time.Second

type PredictionHandler struct {
	service *services.PredictionService
	cache   *services.CacheService
}

func NewPredictionHandler(service *services.PredictionService, cache *services.CacheService) *PredictionHandler {
	return &PredictionHandler{service: service, cache: cache}
}

func recordCacheKey(id uint) string {
	return fmt.Sprintf("prediction:%d", id)
}

func (h *PredictionHandler) List(c *gin.Context) {
	params, err := ParseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"predictions":  page.Predictions,
		"total_count":  page.TotalCount,
		"total_pages":  page.TotalPages,
		"current_page": page.CurrentPage,
	})
}

func (h *PredictionHandler) Get(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		return
	}

	cacheKey := recordCacheKey(id)
	var cached models.Prediction
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.ID != 0 {
		c.JSON(http.StatusOK, cached)
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	go h.cache.Set(context.Background(), cacheKey, p, recordCacheTTL)

	c.JSON(http.StatusOK, p)
}

func (h *PredictionHandler) Create(c *gin.Context) {
	// The role decision comes before the payload is even looked at, so a
	// non-admin gets the same answer no matter what they send.
	caller := middleware.CallerIdentity(c)
	if err := services.RequireRole(caller, models.RoleAdmin); err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	var in services.CreatePredictionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.Create(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	h.publish("prediction_created", p)

	c.JSON(http.StatusCreated, p)
}

func (h *PredictionHandler) Update(c *gin.Context) {
	caller := middleware.CallerIdentity(c)
	if err := services.RequireRole(caller, models.RoleAdmin); err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		return
	}

	var in services.UpdatePredictionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.service.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	go h.cache.Delete(context.Background(), recordCacheKey(id))
	h.publish("prediction_updated", p)

	c.JSON(http.StatusOK, p)
}

func (h *PredictionHandler) Delete(c *gin.Context) {
	caller := middleware.CallerIdentity(c)
	if err := services.RequireRole(caller, models.RoleAdmin); err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err, "prediction not found")
		return
	}

	go h.cache.Delete(context.Background(), recordCacheKey(id))
	h.publish("prediction_deleted", gin.H{"id": id})

	c.JSON(http.StatusOK, gin.H{"message": "Prediction deleted successfully"})
}

func (h *PredictionHandler) publish(event string, data interface{}) {
	go h.cache.Publish(context.Background(), LiveChannel, gin.H{
		"type": event,
		"data": data,
	})
}
