package models

// Metadata tables are one-to-zero-or-one children of Content, keyed by
// content_id. Only the table matching the content's type is ever populated.

// VideoMetadata holds video-specific attributes.
// Duration is stored in seconds; the API accepts minutes and converts.
type VideoMetadata struct {
	ID              uint    `gorm:"primarykey" json:"-"`
	ContentID       uint    `gorm:"uniqueIndex;not null" json:"-"`
	ChannelName     *string `json:"channel_name"`
	ChannelURL      *string `json:"channel_url"`
	DurationSeconds *int    `json:"duration_seconds"`
	ThumbnailURL    *string `json:"thumbnail_url"`
	VideoID         *string `json:"video_id"`
}

func (VideoMetadata) TableName() string { return "video_metadata" }

// ArticleMetadata holds article-specific attributes
type ArticleMetadata struct {
	ID                 uint    `gorm:"primarykey" json:"-"`
	ContentID          uint    `gorm:"uniqueIndex;not null" json:"-"`
	Author             *string `json:"author"`
	SiteName           *string `json:"site_name"`
	SiteFavicon        *string `json:"site_favicon"`
	ReadingTimeMinutes *int    `json:"reading_time_minutes"`
}

func (ArticleMetadata) TableName() string { return "article_metadata" }

// BookMetadata holds book-specific attributes
type BookMetadata struct {
	ID            uint    `gorm:"primarykey" json:"-"`
	ContentID     uint    `gorm:"uniqueIndex;not null" json:"-"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	ISBN          *string `json:"isbn"`
	PageCount     *int    `json:"page_count"`
	CoverImageURL *string `json:"cover_image_url"`
	PublishedYear *int    `json:"published_year"`
}

func (BookMetadata) TableName() string { return "book_metadata" }
