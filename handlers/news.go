package handlers

import (
	"errors"
	"net/http"

	"drought-watch-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NewsHandler struct {
	db *gorm.DB
}

func NewNewsHandler(db *gorm.DB) *NewsHandler {
	return &NewsHandler{db: db}
}

func (h *NewsHandler) List(c *gin.Context) {
	params, err := ParseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Page < 1 || params.Limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page and limit must be positive integers"})
		return
	}

	var total int64
	if err := h.db.Model(&models.News{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	var rows []models.News
	err = h.db.Order("publish_date DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news":         rows,
		"total_count":  total,
		"total_pages":  (total + int64(params.Limit) - 1) / int64(params.Limit),
		"current_page": params.Page,
	})
}

func (h *NewsHandler) Get(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var article models.News
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, article)
}

type NewsRequest struct {
	Headline      string `json:"headline" binding:"required"`
	Excerpt       string `json:"excerpt" binding:"required"`
	Content       string `json:"content" binding:"required"`
	PublishDate   string `json:"publish_date" binding:"required"`
	FeaturedImage string `json:"featured_image" binding:"required"`
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	publishDate, err := parseDateParam(req.PublishDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "publish_date must be a date"})
		return
	}

	article := models.News{
		Headline:      req.Headline,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		PublishDate:   publishDate,
		FeaturedImage: req.FeaturedImage,
	}
	if err := h.db.Create(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

type NewsUpdateRequest struct {
	Headline      *string `json:"headline"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	PublishDate   *string `json:"publish_date"`
	FeaturedImage *string `json:"featured_image"`
}

func (h *NewsHandler) Update(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var req NewsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var article models.News
	if err := h.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if req.Headline != nil {
		article.Headline = *req.Headline
	}
	if req.Excerpt != nil {
		article.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.PublishDate != nil {
		publishDate, err := parseDateParam(*req.PublishDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "publish_date must be a date"})
			return
		}
		article.PublishDate = publishDate
	}
	if req.FeaturedImage != nil {
		article.FeaturedImage = *req.FeaturedImage
	}

	if err := h.db.Save(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	res := h.db.Delete(&models.News{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete article"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}
