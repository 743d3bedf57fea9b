package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/validation"
	"gorm.io/gorm"
)

// Handler handles user preference requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new settings handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// getOrCreate reads the user's preferences row, creating it with defaults on
// first access
func (h *Handler) getOrCreate(userID uint) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := h.db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = models.UserPreferences{
		UserID:           userID,
		DefaultView:      "list",
		DefaultSort:      "created_at",
		DefaultSortOrder: "desc",
		ItemsPerPage:     20,
	}
	if err := h.db.Create(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Get returns the user's preferences
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.UserPreferences
// @Security BearerAuth
// @Router /settings [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// Update applies a partial update to the user's preferences
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body validation.PreferencesPayload true "Fields to update"
// @Success 200 {object} models.UserPreferences
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Security BearerAuth
// @Router /settings [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var payload validation.PreferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errs := payload.Validate(); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data", "details": errs})
		return
	}

	prefs, err := h.getOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	updates := map[string]interface{}{}
	if payload.DisplayName.Set {
		updates["display_name"] = payload.DisplayName.Ptr()
	}
	if payload.DefaultView.Valid {
		updates["default_view"] = payload.DefaultView.Value
	}
	if payload.DefaultSort.Valid {
		updates["default_sort"] = payload.DefaultSort.Value
	}
	if payload.DefaultSortOrder.Valid {
		updates["default_sort_order"] = payload.DefaultSortOrder.Value
	}
	if payload.ItemsPerPage.Valid {
		updates["items_per_page"] = payload.ItemsPerPage.Value
	}

	if len(updates) > 0 {
		err := h.db.Model(&models.UserPreferences{}).
			Where("user_id = ?", userID).
			Updates(updates).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
	}

	var updated models.UserPreferences
	if err := h.db.First(&updated, prefs.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch updated settings"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}
