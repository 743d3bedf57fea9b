package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"gorm.io/gorm"
)

// Handler handles stats requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new stats handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// Response is the per-user stats document
type Response struct {
	TotalContent int64 `json:"total_content"`
	Videos       int64 `json:"videos"`
	Articles     int64 `json:"articles"`
	Books        int64 `json:"books"`
	Pending      int64 `json:"pending"`
	Completed    int64 `json:"completed"`
	Lists        int64 `json:"lists"`
	Tags         int64 `json:"tags"`
}

// Get returns the user's content, list and tag counts
// @Summary Get stats
// @Description Content counts by type and status, plus list and tag counts
// @Tags stats
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /stats [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var resp Response
	content := func() *gorm.DB {
		return h.db.Model(&models.Content{}).Where("user_id = ?", userID)
	}

	content().Count(&resp.TotalContent)
	content().Where("type = ?", models.ContentTypeVideo).Count(&resp.Videos)
	content().Where("type = ?", models.ContentTypeArticle).Count(&resp.Articles)
	content().Where("type = ?", models.ContentTypeBook).Count(&resp.Books)
	content().Where("status = ?", models.ContentStatusPending).Count(&resp.Pending)
	content().Where("status = ?", models.ContentStatusCompleted).Count(&resp.Completed)
	h.db.Model(&models.List{}).Where("user_id = ?", userID).Count(&resp.Lists)
	h.db.Model(&models.Tag{}).Where("user_id = ?", userID).Count(&resp.Tags)

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers stats routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Get)
}
