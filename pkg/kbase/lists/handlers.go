package lists

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/validation"
	"gorm.io/gorm"
)

// Handler handles list-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new lists handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ListResponse represents a list in API responses
type ListResponse struct {
	models.List
	ContentCount int64 `json:"content_count"`
}

// DetailResponse is a list with its contents embedded
type DetailResponse struct {
	models.List
	Contents     []models.Content `json:"contents"`
	ContentCount int              `json:"content_count"`
}

// findOwned fetches a list scoped to its owner. A miss, for whatever reason,
// is a plain not-found.
func (h *Handler) findOwned(userID uint, listID uint64) (*models.List, bool) {
	var list models.List
	if err := h.db.Where("id = ? AND user_id = ?", listID, userID).First(&list).Error; err != nil {
		return nil, false
	}
	return &list, true
}

// List returns the user's lists, newest first, with content counts
// @Summary List lists
// @Tags lists
// @Produce json
// @Success 200 {array} ListResponse
// @Security BearerAuth
// @Router /lists [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var lists []models.List
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lists"})
		return
	}

	responses := make([]ListResponse, len(lists))
	for i, list := range lists {
		var count int64
		h.db.Model(&models.ContentList{}).Where("list_id = ?", list.ID).Count(&count)
		responses[i] = ListResponse{List: list, ContentCount: count}
	}

	c.JSON(http.StatusOK, responses)
}

// Create creates a new list
// @Summary Create a list
// @Tags lists
// @Accept json
// @Produce json
// @Param request body validation.ListPayload true "List details"
// @Success 201 {object} models.List
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /lists [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var payload validation.ListPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := payload.ValidateCreate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": errs})
		return
	}

	list := models.List{
		UserID:      userID,
		Name:        payload.Name.Value,
		Description: payload.Description.Ptr(),
		Color:       validation.DefaultListColor,
		Icon:        validation.DefaultListIcon,
	}
	if payload.Color.Valid {
		list.Color = payload.Color.Value
	}
	if payload.Icon.Valid {
		list.Icon = payload.Icon.Value
	}

	if err := h.db.Create(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}

	c.JSON(http.StatusCreated, list)
}

// Get returns a list with its contents
// @Summary Get a list
// @Tags lists
// @Produce json
// @Param id path int true "List ID"
// @Success 200 {object} DetailResponse
// @Failure 404 {object} map[string]string "List not found"
// @Security BearerAuth
// @Router /lists/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, ok := h.findOwned(userID, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	var contents []models.Content
	err = h.db.
		Joins("JOIN content_lists ON content_lists.content_id = content.id").
		Where("content_lists.list_id = ?", list.ID).
		Preload("VideoMetadata").
		Preload("ArticleMetadata").
		Preload("BookMetadata").
		Preload("Tags").
		Find(&contents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch list contents"})
		return
	}

	c.JSON(http.StatusOK, DetailResponse{
		List:         *list,
		Contents:     contents,
		ContentCount: len(contents),
	})
}

// Update applies a partial update to a list
// @Summary Update a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path int true "List ID"
// @Param request body validation.ListPayload true "Fields to update"
// @Success 200 {object} models.List
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]string "List not found"
// @Security BearerAuth
// @Router /lists/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, ok := h.findOwned(userID, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	var payload validation.ListPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := payload.ValidateUpdate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": errs})
		return
	}

	updates := map[string]interface{}{}
	if payload.Name.Valid {
		updates["name"] = payload.Name.Value
	}
	if payload.Description.Set {
		updates["description"] = payload.Description.Ptr()
	}
	if payload.Color.Valid {
		updates["color"] = payload.Color.Value
	}
	if payload.Icon.Valid {
		updates["icon"] = payload.Icon.Value
	}

	if len(updates) > 0 {
		err := h.db.Model(&models.List{}).
			Where("id = ? AND user_id = ?", list.ID, userID).
			Updates(updates).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update list"})
			return
		}
	}

	var updated models.List
	if err := h.db.First(&updated, list.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated list"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a list and its content associations. The contents themselves
// are untouched.
// @Summary Delete a list
// @Tags lists
// @Produce json
// @Param id path int true "List ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "List not found"
// @Security BearerAuth
// @Router /lists/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
		return
	}

	list, ok := h.findOwned(userID, id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}

	if err := h.db.Where("list_id = ?", list.ID).Delete(&models.ContentList{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete list"})
		return
	}
	if err := h.db.Delete(list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers list routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/lists", h.List)
	rg.POST("/lists", h.Create)
	rg.GET("/lists/:id", h.Get)
	rg.PUT("/lists/:id", h.Update)
	rg.DELETE("/lists/:id", h.Delete)

	rg.POST("/lists/:id/contents", h.AddContents)
	rg.DELETE("/lists/:id/contents", h.RemoveContent)
}
