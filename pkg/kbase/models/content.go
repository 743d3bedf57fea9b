package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContentType classifies a saved item and selects which metadata table applies.
// It is immutable in spirit: changing it re-targets metadata upserts but never
// leaves more than one matching metadata row behind.
type ContentType string

const (
	ContentTypeVideo   ContentType = "video"
	ContentTypeArticle ContentType = "article"
	ContentTypeBook    ContentType = "book"
)

// ContentStatus tracks whether an item has been consumed yet
type ContentStatus string

const (
	ContentStatusPending   ContentStatus = "pending"
	ContentStatusCompleted ContentStatus = "completed"
)

// RelatedLink is one entry of a content item's ordered related-links list
type RelatedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Content is the central aggregate: a saved video, article, or book.
// There is no soft delete; removal cascades by hand to the metadata and
// association tables (the store is not trusted to do it in every path).
type Content struct {
	ID            uint                             `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time                        `json:"created_at"`
	UpdatedAt     time.Time                        `json:"updated_at"`
	UserID        uint                             `gorm:"not null;index" json:"user_id"`
	Type          ContentType                      `gorm:"type:varchar(10);not null;index" json:"type"`
	Status        ContentStatus                    `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	Title         string                           `gorm:"size:500;not null" json:"title"`
	URL           *string                          `json:"url"`
	Description   *string                          `gorm:"size:5000" json:"description"`
	Summary       *string                          `gorm:"size:10000" json:"summary"`
	RelatedLinks  datatypes.JSONSlice[RelatedLink] `json:"related_links"`
	Rating        *int                             `json:"rating"`
	PersonalNotes *string                          `gorm:"size:10000" json:"personal_notes"`
	// CompletedAt is set exactly when status transitions into completed and
	// cleared exactly when it transitions back to pending.
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	VideoMetadata   *VideoMetadata   `gorm:"foreignKey:ContentID" json:"video_metadata,omitempty"`
	ArticleMetadata *ArticleMetadata `gorm:"foreignKey:ContentID" json:"article_metadata,omitempty"`
	BookMetadata    *BookMetadata    `gorm:"foreignKey:ContentID" json:"book_metadata,omitempty"`
	Tags            []Tag            `gorm:"many2many:content_tags;" json:"tags,omitempty"`
	Lists           []List           `gorm:"many2many:content_lists;" json:"lists,omitempty"`
}

// TableName keeps the aggregate's table singular, matching the metadata and
// association table names derived from it
func (Content) TableName() string { return "content" }

// ContentTag is the content/tag association row. It shares the table backing
// the many2many relation so association cleanup can be done with plain deletes.
type ContentTag struct {
	ContentID uint `gorm:"primaryKey" json:"content_id"`
	TagID     uint `gorm:"primaryKey" json:"tag_id"`
}

// TableName matches the many2many join table on Content.Tags
func (ContentTag) TableName() string { return "content_tags" }

// ContentList is the content/list association row
type ContentList struct {
	ContentID uint `gorm:"primaryKey" json:"content_id"`
	ListID    uint `gorm:"primaryKey" json:"list_id"`
}

// TableName matches the many2many join table on Content.Lists
func (ContentList) TableName() string { return "content_lists" }
