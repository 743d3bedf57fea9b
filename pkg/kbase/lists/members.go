package lists

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
)

// AddContentsRequest is the bulk membership payload
type AddContentsRequest struct {
	ContentIDs []uint `json:"contentIds" binding:"required"`
}

// RemoveContentRequest identifies a single content item to detach
type RemoveContentRequest struct {
	ContentID uint `json:"contentId" binding:"required"`
}

// AddContents adds content items to a list. Ids that are not the caller's, or
// that are already members, are silently skipped; the response reports how
// many were actually added.
// @Summary Add content to a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path int true "List ID"
// @Param request body AddContentsRequest true "Content IDs to add"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "List not found"
// @Security BearerAuth
// @Router /lists/{id}/contents [post]
func (h *Handler) AddContents(c *gin.Context) {
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

	var req AddContentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contentIds is required"})
		return
	}

	// Only the caller's own content can be attached
	var ownedIDs []uint
	if len(req.ContentIDs) > 0 {
		err := h.db.Model(&models.Content{}).
			Where("id IN ? AND user_id = ?", req.ContentIDs, userID).
			Pluck("id", &ownedIDs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add content to list"})
			return
		}
	}

	var existingIDs []uint
	if len(ownedIDs) > 0 {
		err := h.db.Model(&models.ContentList{}).
			Where("list_id = ? AND content_id IN ?", list.ID, ownedIDs).
			Pluck("content_id", &existingIDs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add content to list"})
			return
		}
	}

	existing := make(map[uint]bool, len(existingIDs))
	for _, cid := range existingIDs {
		existing[cid] = true
	}

	var toAdd []models.ContentList
	for _, cid := range ownedIDs {
		if !existing[cid] {
			toAdd = append(toAdd, models.ContentList{ContentID: cid, ListID: list.ID})
		}
	}

	if len(toAdd) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Content already in list", "added": 0})
		return
	}

	if err := h.db.Create(&toAdd).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add content to list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content added to list", "added": len(toAdd)})
}

// RemoveContent detaches a content item from a list. Removing an item that is
// not a member is not an error.
// @Summary Remove content from a list
// @Tags lists
// @Accept json
// @Produce json
// @Param id path int true "List ID"
// @Param request body RemoveContentRequest true "Content ID to remove"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string "List not found"
// @Security BearerAuth
// @Router /lists/{id}/contents [delete]
func (h *Handler) RemoveContent(c *gin.Context) {
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

	var req RemoveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contentId is required"})
		return
	}

	err = h.db.
		Where("list_id = ? AND content_id = ?", list.ID, req.ContentID).
		Delete(&models.ContentList{}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove content from list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
