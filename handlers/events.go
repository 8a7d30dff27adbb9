package handlers

import (
	"errors"
	"net/http"

	"drought-watch-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventsHandler struct {
	db *gorm.DB
}

func NewEventsHandler(db *gorm.DB) *EventsHandler {
	return &EventsHandler{db: db}
}

func (h *EventsHandler) List(c *gin.Context) {
	params, err := ParseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Page < 1 || params.Limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be positive integers"})
		return
	}

	query := h.db.Model(&models.Event{})
	if c.Query("upcoming") == "true" {
		query = query.Where("datetime >= NOW()")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var rows []models.Event
	err = query.Order("datetime ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       rows,
		"total_count":  total,
		"total_pages":  (total + int64(params.Limit) - 1) / int64(params.Limit),
		"current_page": params.Page,
	})
}

func (h *EventsHandler) Get(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	var event models.Event
	if err := h.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, event)
}

type EventRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description" binding:"required"`
	Datetime         string `json:"datetime" binding:"required"`
	Location         string `json:"location" binding:"required"`
	RegistrationLink string `json:"registration_link"`
}

func (h *EventsHandler) Create(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	when, err := parseDateParam(req.Datetime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "datetime must be a date or RFC 3339 timestamp"})
		return
	}

	event := models.Event{
		Title:            req.Title,
		Description:      req.Description,
		Datetime:         when,
		Location:         req.Location,
		RegistrationLink: req.RegistrationLink,
	}
	if err := h.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

type EventUpdateRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Datetime         *string `json:"datetime"`
	Location         *string `json:"location"`
	RegistrationLink *string `json:"registration_link"`
}

func (h *EventsHandler) Update(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	var req EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event models.Event
	if err := h.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Datetime != nil {
		when, err := parseDateParam(*req.Datetime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "datetime must be a date or RFC 3339 timestamp"})
			return
		}
		event.Datetime = when
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.RegistrationLink != nil {
		event.RegistrationLink = *req.RegistrationLink
	}

	if err := h.db.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventsHandler) Delete(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	res := h.db.Delete(&models.Event{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}
