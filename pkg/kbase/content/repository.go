package content

import (
	"log"

	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/tags"
	"github.com/kbase-app/kbase/pkg/kbase/validation"
	"gorm.io/gorm"
)

// toModelLinks converts validated related links into the stored JSON shape
func toModelLinks(links []validation.RelatedLink) []models.RelatedLink {
	out := make([]models.RelatedLink, len(links))
	for i, l := range links {
		out[i] = models.RelatedLink{Title: l.Title, URL: l.URL}
	}
	return out
}

// minutesToSeconds converts the payload's duration_minutes to the stored
// duration_seconds column
func minutesToSeconds(minutes *int) *int {
	if minutes == nil {
		return nil
	}
	s := *minutes * 60
	return &s
}

// insertMetadata inserts the metadata row matching the content type,
// populated only with the supplied fields. Insertion is skipped entirely when
// no relevant field carries a value, so no empty rows are created. A failure
// here is logged, not propagated: the content row is already committed.
func (h *Handler) insertMetadata(contentID uint, contentType models.ContentType, m *validation.ContentMetadata) {
	var row interface{}

	switch contentType {
	case models.ContentTypeVideo:
		meta := models.VideoMetadata{
			ContentID:       contentID,
			ChannelName:     m.ChannelName.Ptr(),
			ChannelURL:      m.ChannelURL.Ptr(),
			DurationSeconds: minutesToSeconds(m.DurationMinutes.Ptr()),
			ThumbnailURL:    m.ThumbnailURL.Ptr(),
			VideoID:         m.VideoID.Ptr(),
		}
		if meta.ChannelName == nil && meta.ChannelURL == nil && meta.DurationSeconds == nil &&
			meta.ThumbnailURL == nil && meta.VideoID == nil {
			return
		}
		row = &meta
	case models.ContentTypeArticle:
		meta := models.ArticleMetadata{
			ContentID:          contentID,
			Author:             m.Author.Ptr(),
			SiteName:           m.SiteName.Ptr(),
			SiteFavicon:        m.SiteFavicon.Ptr(),
			ReadingTimeMinutes: m.ReadingTimeMinutes.Ptr(),
		}
		if meta.Author == nil && meta.SiteName == nil && meta.SiteFavicon == nil &&
			meta.ReadingTimeMinutes == nil {
			return
		}
		row = &meta
	case models.ContentTypeBook:
		meta := models.BookMetadata{
			ContentID:     contentID,
			Author:        m.Author.Ptr(),
			Publisher:     m.Publisher.Ptr(),
			ISBN:          m.ISBN.Ptr(),
			PageCount:     m.PageCount.Ptr(),
			CoverImageURL: m.CoverImageURL.Ptr(),
			PublishedYear: m.PublishedYear.Ptr(),
		}
		if meta.Author == nil && meta.Publisher == nil && meta.ISBN == nil &&
			meta.PageCount == nil && meta.CoverImageURL == nil && meta.PublishedYear == nil {
			return
		}
		row = &meta
	default:
		return
	}

	if err := h.db.Create(row).Error; err != nil {
		log.Printf("content %d: failed to create %s metadata: %v", contentID, contentType, err)
	}
}

// upsertMetadata updates the metadata row matching the content type, creating
// it when absent. Unlike create, every type-relevant field is overwritten, so
// omitted fields come out null.
func (h *Handler) upsertMetadata(contentID uint, contentType models.ContentType, m *validation.ContentMetadata) {
	var (
		model  interface{}
		fields map[string]interface{}
	)

	switch contentType {
	case models.ContentTypeVideo:
		model = &models.VideoMetadata{}
		fields = map[string]interface{}{
			"channel_name":     m.ChannelName.Ptr(),
			"channel_url":      m.ChannelURL.Ptr(),
			"duration_seconds": minutesToSeconds(m.DurationMinutes.Ptr()),
			"thumbnail_url":    m.ThumbnailURL.Ptr(),
			"video_id":         m.VideoID.Ptr(),
		}
	case models.ContentTypeArticle:
		model = &models.ArticleMetadata{}
		fields = map[string]interface{}{
			"author":               m.Author.Ptr(),
			"site_name":            m.SiteName.Ptr(),
			"site_favicon":         m.SiteFavicon.Ptr(),
			"reading_time_minutes": m.ReadingTimeMinutes.Ptr(),
		}
	case models.ContentTypeBook:
		model = &models.BookMetadata{}
		fields = map[string]interface{}{
			"author":          m.Author.Ptr(),
			"publisher":       m.Publisher.Ptr(),
			"isbn":            m.ISBN.Ptr(),
			"page_count":      m.PageCount.Ptr(),
			"cover_image_url": m.CoverImageURL.Ptr(),
			"published_year":  m.PublishedYear.Ptr(),
		}
	default:
		return
	}

	var count int64
	h.db.Model(model).Where("content_id = ?", contentID).Count(&count)

	var err error
	if count > 0 {
		err = h.db.Model(model).Where("content_id = ?", contentID).Updates(fields).Error
	} else {
		fields["content_id"] = contentID
		err = h.db.Model(model).Create(fields).Error
	}
	if err != nil {
		log.Printf("content %d: failed to upsert %s metadata: %v", contentID, contentType, err)
	}
}

// attachLists creates one list association per id. Failures are logged and
// skipped; a bad list id must not undo the content itself.
func (h *Handler) attachLists(contentID uint, listIDs []uint) {
	for _, listID := range listIDs {
		assoc := models.ContentList{ContentID: contentID, ListID: listID}
		if err := h.db.Create(&assoc).Error; err != nil {
			log.Printf("content %d: failed to associate list %d: %v", contentID, listID, err)
		}
	}
}

// attachTags resolves each name through get-or-create and links it to the
// content. A failing tag is logged and skipped, never fatal.
func (h *Handler) attachTags(contentID, userID uint, names []string) {
	for _, name := range names {
		tag, err := tags.GetOrCreate(h.db, userID, name)
		if err != nil {
			log.Printf("content %d: failed to create tag %q: %v", contentID, name, err)
			continue
		}
		if tag == nil {
			// Empty after normalization
			continue
		}
		assoc := models.ContentTag{ContentID: contentID, TagID: tag.ID}
		if err := h.db.Create(&assoc).Error; err != nil {
			log.Printf("content %d: failed to associate tag %q: %v", contentID, name, err)
		}
	}
}

// replaceTags swaps the content's full tag association set for the given
// names. An empty slice clears all associations. Tag rows themselves are
// never removed here.
func (h *Handler) replaceTags(contentID, userID uint, names []string) {
	if err := h.db.Where("content_id = ?", contentID).Delete(&models.ContentTag{}).Error; err != nil {
		log.Printf("content %d: failed to clear tag associations: %v", contentID, err)
		return
	}
	h.attachTags(contentID, userID, names)
}

// deleteAssociations removes every row referencing the content: tag and list
// associations plus all three metadata tables. The store is not relied on for
// cross-table cascade.
func (h *Handler) deleteAssociations(tx *gorm.DB, contentID uint) error {
	steps := []interface{}{
		&models.ContentTag{},
		&models.ContentList{},
		&models.VideoMetadata{},
		&models.ArticleMetadata{},
		&models.BookMetadata{},
	}
	for _, model := range steps {
		if err := tx.Where("content_id = ?", contentID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
