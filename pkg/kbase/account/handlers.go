package account

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"gorm.io/gorm"
)

// Handler handles account-level requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new account handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Delete removes the user and everything they own, innermost rows first.
// Association and metadata cleanup is best-effort: a failure there is logged
// and the cascade keeps going. Only failing to delete the content rows or the
// user row itself aborts.
// @Summary Delete account
// @Description Permanently delete the account and all associated data
// @Tags account
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /account [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var contentIDs []uint
	if err := h.db.Model(&models.Content{}).Where("user_id = ?", userID).Pluck("id", &contentIDs).Error; err != nil {
		log.Printf("account %d: failed to list content ids: %v", userID, err)
	}

	if len(contentIDs) > 0 {
		assocSteps := []struct {
			name  string
			model interface{}
		}{
			{"tag associations", &models.ContentTag{}},
			{"list associations", &models.ContentList{}},
			{"video metadata", &models.VideoMetadata{}},
			{"article metadata", &models.ArticleMetadata{}},
			{"book metadata", &models.BookMetadata{}},
		}
		for _, step := range assocSteps {
			if err := h.db.Where("content_id IN ?", contentIDs).Delete(step.model).Error; err != nil {
				log.Printf("account %d: failed to delete %s: %v", userID, step.name, err)
			}
		}
	}

	if err := h.db.Where("user_id = ?", userID).Delete(&models.Content{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	if err := h.db.Where("user_id = ?", userID).Delete(&models.List{}).Error; err != nil {
		log.Printf("account %d: failed to delete lists: %v", userID, err)
	}
	if err := h.db.Where("user_id = ?", userID).Delete(&models.Tag{}).Error; err != nil {
		log.Printf("account %d: failed to delete tags: %v", userID, err)
	}
	if err := h.db.Where("user_id = ?", userID).Delete(&models.UserPreferences{}).Error; err != nil {
		log.Printf("account %d: failed to delete preferences: %v", userID, err)
	}

	if err := h.db.Delete(&models.User{}, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers account routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/account", h.Delete)
}
