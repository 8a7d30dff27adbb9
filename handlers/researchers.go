package handlers

import (
	"errors"
	"net/http"

	"drought-watch-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ResearchersHandler struct {
	db *gorm.DB
}

func NewResearchersHandler(db *gorm.DB) *ResearchersHandler {
	return &ResearchersHandler{db: db}
}

// List returns every researcher profile ordered by name; the roster is small
// enough that it is not paginated.
func (h *ResearchersHandler) List(c *gin.Context) {
	var rows []models.Researcher
	if err := h.db.Order("name").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"researchers": rows})
}

func (h *ResearchersHandler) Get(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
		return
	}

	var r models.Researcher
	if err := h.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	c.JSON(http.StatusOK, r)
}

type ResearcherRequest struct {
	Name         string   `json:"name" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Bio          string   `json:"bio" binding:"required"`
	Expertise    []string `json:"expertise"`
	Institution  string   `json:"institution" binding:"required"`
	ProfileImage string   `json:"profile_image" binding:"required"`
	Publications int      `json:"publications"`
	Email        string   `json:"email"`
}

func (h *ResearchersHandler) Create(c *gin.Context) {
	var req ResearcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r := models.Researcher{
		Name:         req.Name,
		Title:        req.Title,
		Bio:          req.Bio,
		Expertise:    req.Expertise,
		Institution:  req.Institution,
		ProfileImage: req.ProfileImage,
		Publications: req.Publications,
		Email:        req.Email,
	}
	if r.Expertise == nil {
		r.Expertise = []string{}
	}
	if err := h.db.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create researcher"})
		return
	}

	c.JSON(http.StatusCreated, r)
}

type ResearcherUpdateRequest struct {
	Name         *string   `json:"name"`
	Title        *string   `json:"title"`
	Bio          *string   `json:"bio"`
	Expertise    *[]string `json:"expertise"`
	Institution  *string   `json:"institution"`
	ProfileImage *string   `json:"profile_image"`
	Publications *int      `json:"publications"`
	Email        *string   `json:"email"`
}

func (h *ResearchersHandler) Update(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
		return
	}

	var req ResearcherUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var r models.Researcher
	if err := h.db.First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Bio != nil {
		r.Bio = *req.Bio
	}
	if req.Expertise != nil {
		r.Expertise = *req.Expertise
	}
	if req.Institution != nil {
		r.Institution = *req.Institution
	}
	if req.ProfileImage != nil {
		r.ProfileImage = *req.ProfileImage
	}
	if req.Publications != nil {
		r.Publications = *req.Publications
	}
	if req.Email != nil {
		r.Email = *req.Email
	}

	if err := h.db.Save(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update researcher"})
		return
	}

	c.JSON(http.StatusOK, r)
}

func (h *ResearchersHandler) Delete(c *gin.Context) {
	id, err := ParseID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
		return
	}

	res := h.db.Delete(&models.Researcher{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete researcher"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "researcher not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Researcher deleted successfully"})
}
