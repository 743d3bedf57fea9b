package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"gorm.io/gorm"
)

// Handler handles export requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new export handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ContentExport is one content item in the export document
type ContentExport struct {
	ID            uint                 `json:"id"`
	Type          models.ContentType   `json:"type"`
	Status        models.ContentStatus `json:"status"`
	Title         string               `json:"title"`
	URL           *string              `json:"url"`
	Description   *string              `json:"description"`
	Summary       *string              `json:"summary"`
	Rating        *int                 `json:"rating"`
	PersonalNotes *string              `json:"personal_notes"`
	RelatedLinks  []models.RelatedLink `json:"related_links"`
	Metadata      interface{}          `json:"metadata,omitempty"`
	Lists         []string             `json:"lists"`
	Tags          []string             `json:"tags"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	CompletedAt   *time.Time           `json:"completed_at"`
}

// Stats is the summary block at the top of the export document
type Stats struct {
	TotalContent int `json:"total_content"`
	Videos       int `json:"videos"`
	Articles     int `json:"articles"`
	Books        int `json:"books"`
	Lists        int `json:"lists"`
	Tags         int `json:"tags"`
}

// Document is the full JSON export shape
type Document struct {
	ExportedAt time.Time       `json:"exported_at"`
	UserEmail  string          `json:"user_email"`
	Stats      Stats           `json:"stats"`
	Content    []ContentExport `json:"content"`
	Lists      []models.List   `json:"lists"`
	Tags       []models.Tag    `json:"tags"`
}

// gather loads everything the user owns into an export document
func (h *Handler) gather(userID uint, email string) (*Document, error) {
	var contents []models.Content
	err := h.db.Where("user_id = ?", userID).
		Preload("VideoMetadata").
		Preload("ArticleMetadata").
		Preload("BookMetadata").
		Preload("Tags").
		Preload("Lists").
		Order("created_at DESC").
		Find(&contents).Error
	if err != nil {
		return nil, err
	}

	var lists []models.List
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error; err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := h.db.Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}

	doc := Document{
		ExportedAt: time.Now().UTC(),
		UserEmail:  email,
		Content:    make([]ContentExport, len(contents)),
		Lists:      lists,
		Tags:       tags,
	}
	doc.Stats.TotalContent = len(contents)
	doc.Stats.Lists = len(lists)
	doc.Stats.Tags = len(tags)

	for i, item := range contents {
		exp := ContentExport{
			ID:            item.ID,
			Type:          item.Type,
			Status:        item.Status,
			Title:         item.Title,
			URL:           item.URL,
			Description:   item.Description,
			Summary:       item.Summary,
			Rating:        item.Rating,
			PersonalNotes: item.PersonalNotes,
			RelatedLinks:  item.RelatedLinks,
			Lists:         make([]string, len(item.Lists)),
			Tags:          make([]string, len(item.Tags)),
			CreatedAt:     item.CreatedAt,
			UpdatedAt:     item.UpdatedAt,
			CompletedAt:   item.CompletedAt,
		}
		for j, l := range item.Lists {
			exp.Lists[j] = l.Name
		}
		for j, t := range item.Tags {
			exp.Tags[j] = t.Name
		}

		switch item.Type {
		case models.ContentTypeVideo:
			doc.Stats.Videos++
			if item.VideoMetadata != nil {
				exp.Metadata = item.VideoMetadata
			}
		case models.ContentTypeArticle:
			doc.Stats.Articles++
			if item.ArticleMetadata != nil {
				exp.Metadata = item.ArticleMetadata
			}
		case models.ContentTypeBook:
			doc.Stats.Books++
			if item.BookMetadata != nil {
				exp.Metadata = item.BookMetadata
			}
		}

		doc.Content[i] = exp
	}

	return &doc, nil
}

// csvHeader is the fixed column layout of the CSV export
var csvHeader = []string{
	"id", "type", "status", "title", "url", "description", "summary",
	"rating", "personal_notes", "created_at", "updated_at", "completed_at",
	"lists", "tags", "related_links",
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeCSV(w *csv.Writer, doc *Document) error {
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, item := range doc.Content {
		rating := ""
		if item.Rating != nil {
			rating = strconv.Itoa(*item.Rating)
		}
		completedAt := ""
		if item.CompletedAt != nil {
			completedAt = item.CompletedAt.Format(time.RFC3339)
		}
		links := make([]string, len(item.RelatedLinks))
		for i, l := range item.RelatedLinks {
			links[i] = l.Title + ": " + l.URL
		}

		row := []string{
			strconv.FormatUint(uint64(item.ID), 10),
			string(item.Type),
			string(item.Status),
			item.Title,
			strOrEmpty(item.URL),
			strOrEmpty(item.Description),
			strOrEmpty(item.Summary),
			rating,
			strOrEmpty(item.PersonalNotes),
			item.CreatedAt.Format(time.RFC3339),
			item.UpdatedAt.Format(time.RFC3339),
			completedAt,
			strings.Join(item.Lists, "; "),
			strings.Join(item.Tags, "; "),
			strings.Join(links, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// Export returns the user's full knowledge base as a downloadable file
// @Summary Export all data
// @Description Download everything as JSON or CSV
// @Tags export
// @Produce json
// @Param format query string false "Export format: json or csv" default(json)
// @Success 200 {object} Document
// @Failure 400 {object} map[string]string "Unsupported format"
// @Security BearerAuth
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)

	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be json or csv"})
		return
	}

	doc, err := h.gather(userID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}

	filename := fmt.Sprintf("kbase-export-%s.%s", time.Now().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		w := csv.NewWriter(c.Writer)
		if err := writeCSV(w, doc); err != nil {
			// Headers are already out; nothing sensible left to do
			return
		}
		return
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// RegisterRoutes registers export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
}
