package content

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Handler handles content-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new content handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Pagination describes one page of a listing response
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListResponse is the content listing envelope
type ListResponse struct {
	Data       []models.Content `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

var sortColumns = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"completed_at": true,
	"title":        true,
	"rating":       true,
}

// List returns the user's content, filtered, sorted and paginated
// @Summary List content
// @Description Get the user's content with optional filters
// @Tags content
// @Produce json
// @Param type query string false "Filter by type (video|article|book)"
// @Param status query string false "Filter by status (pending|completed)"
// @Param listId query int false "Filter by list membership"
// @Param search query string false "Substring match on title, description, personal notes"
// @Param sortBy query string false "Sort column (created_at|updated_at|completed_at|title|rating)"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /content [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	query := h.db.Model(&models.Content{}).Where("content.user_id = ?", userID)

	if typ := c.Query("type"); typ != "" {
		if typ != "video" && typ != "article" && typ != "book" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type filter"})
			return
		}
		query = query.Where("content.type = ?", typ)
	}
	if status := c.Query("status"); status != "" {
		if status != "pending" && status != "completed" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("content.status = ?", status)
	}
	if listID := c.Query("listId"); listID != "" {
		id, err := strconv.ParseUint(listID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list ID"})
			return
		}
		query = query.
			Joins("JOIN content_lists ON content_lists.content_id = content.id").
			Where("content_lists.list_id = ?", id)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("content.title LIKE ? OR content.description LIKE ? OR content.personal_notes LIKE ?", term, term, term)
	}

	sortBy := c.DefaultQuery("sortBy", "created_at")
	if !sortColumns[sortBy] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort column"})
		return
	}
	sortOrder := c.DefaultQuery("sortOrder", "desc")
	if sortOrder != "asc" && sortOrder != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort order"})
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content"})
		return
	}

	var items []models.Content
	err := query.
		Preload("VideoMetadata").
		Preload("ArticleMetadata").
		Preload("BookMetadata").
		Preload("Tags").
		Order("content." + sortBy + " " + sortOrder).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, ListResponse{
		Data: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Create creates a new content item with optional metadata, list and tag
// associations. Only the primary insert is fatal; association sub-steps are
// best-effort.
// @Summary Create content
// @Tags content
// @Accept json
// @Produce json
// @Param request body validation.ContentPayload true "Content details"
// @Success 201 {object} models.Content
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /content [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var payload validation.ContentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.Normalize()
	if errs := payload.ValidateCreate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": errs})
		return
	}

	status := models.ContentStatusPending
	if payload.Status.Valid {
		status = models.ContentStatus(payload.Status.Value)
	}
	var completedAt *time.Time
	if status == models.ContentStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	item := models.Content{
		UserID:        userID,
		Type:          models.ContentType(payload.Type.Value),
		Status:        status,
		Title:         payload.Title.Value,
		URL:           payload.URL.Ptr(),
		Description:   payload.Description.Ptr(),
		Summary:       payload.Summary.Ptr(),
		Rating:        payload.Rating.Ptr(),
		PersonalNotes: payload.PersonalNotes.Ptr(),
		CompletedAt:   completedAt,
	}
	if payload.RelatedLinks != nil {
		item.RelatedLinks = toModelLinks(*payload.RelatedLinks)
	}

	if err := h.db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create content"})
		return
	}

	if payload.Metadata != nil {
		h.insertMetadata(item.ID, item.Type, payload.Metadata)
	}
	if len(payload.ListIDs) > 0 {
		h.attachLists(item.ID, payload.ListIDs)
	}
	if payload.Tags != nil && len(*payload.Tags) > 0 {
		h.attachTags(item.ID, userID, *payload.Tags)
	}

	c.JSON(http.StatusCreated, item)
}

// Get returns one content item with its metadata, tags and lists. Content
// owned by another user is indistinguishable from content that does not
// exist.
// @Summary Get content
// @Tags content
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} models.Content
// @Failure 404 {object} map[string]string "Content not found"
// @Security BearerAuth
// @Router /content/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID"})
		return
	}

	var item models.Content
	err = h.db.
		Preload("VideoMetadata").
		Preload("ArticleMetadata").
		Preload("BookMetadata").
		Preload("Tags").
		Preload("Lists").
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Update applies a partial update: absent fields stay untouched, supplied
// nulls clear. Status transitions drive completed_at; metadata is upserted by
// the effective type; a supplied tags list (even empty) replaces the full
// association set.
// @Summary Update content
// @Tags content
// @Accept json
// @Produce json
// @Param id path int true "Content ID"
// @Param request body validation.ContentPayload true "Fields to update"
// @Success 200 {object} models.Content
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]string "Content not found"
// @Security BearerAuth
// @Router /content/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID"})
		return
	}

	var existing models.Content
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	var payload validation.ContentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload.Normalize()
	if errs := payload.ValidateUpdate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": errs})
		return
	}

	updates := map[string]interface{}{}
	if payload.Type.Valid {
		updates["type"] = payload.Type.Value
	}
	if payload.Status.Valid {
		newStatus := models.ContentStatus(payload.Status.Value)
		updates["status"] = payload.Status.Value
		// completed_at tracks the transition, not the value
		if newStatus == models.ContentStatusCompleted && existing.Status != models.ContentStatusCompleted {
			updates["completed_at"] = time.Now()
		}
		if newStatus == models.ContentStatusPending && existing.Status == models.ContentStatusCompleted {
			updates["completed_at"] = nil
		}
	}
	if payload.Title.Valid {
		updates["title"] = payload.Title.Value
	}
	if payload.URL.Set {
		updates["url"] = payload.URL.Ptr()
	}
	if payload.Description.Set {
		updates["description"] = payload.Description.Ptr()
	}
	if payload.Summary.Set {
		updates["summary"] = payload.Summary.Ptr()
	}
	if payload.Rating.Set {
		updates["rating"] = payload.Rating.Ptr()
	}
	if payload.PersonalNotes.Set {
		updates["personal_notes"] = payload.PersonalNotes.Ptr()
	}
	if payload.RelatedLinks != nil {
		updates["related_links"] = datatypes.NewJSONSlice(toModelLinks(*payload.RelatedLinks))
	}

	if len(updates) > 0 {
		err := h.db.Model(&models.Content{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content"})
			return
		}
	}

	// Metadata follows the type the row has after this update
	effectiveType := existing.Type
	if payload.Type.Valid {
		effectiveType = models.ContentType(payload.Type.Value)
	}
	if payload.Metadata != nil {
		h.upsertMetadata(existing.ID, effectiveType, payload.Metadata)
	}

	if payload.Tags != nil {
		h.replaceTags(existing.ID, userID, *payload.Tags)
	}

	var updated models.Content
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated content"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a content item and everything referencing it
// @Summary Delete content
// @Tags content
// @Produce json
// @Param id path int true "Content ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "Content not found"
// @Security BearerAuth
// @Router /content/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID"})
		return
	}

	var item models.Content
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}

	if err := h.deleteAssociations(h.db, item.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content"})
		return
	}
	if err := h.db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete content"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers content routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/content", h.List)
	rg.POST("/content", h.Create)
	rg.GET("/content/:id", h.Get)
	rg.PUT("/content/:id", h.Update)
	rg.DELETE("/content/:id", h.Delete)
}
