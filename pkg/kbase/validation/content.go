package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/types"
)

const (
	maxTitleLen         = 500
	maxDescriptionLen   = 5000
	maxSummaryLen       = 10000
	maxPersonalNotesLen = 10000
	maxRelatedLinks     = 20
	maxRelatedLinkTitle = 200
	maxTags             = 10
	maxTagLen           = 50
)

// RelatedLink mirrors models.RelatedLink at the payload boundary
type RelatedLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ContentMetadata carries the type-specific metadata fields of a payload.
// All fields are optional; numeric fields tolerate NaN/"" and coerce to null.
// The repository picks the subset relevant to the content's type.
type ContentMetadata struct {
	// Video metadata
	ChannelName     types.Optional[string] `json:"channel_name"`
	ChannelURL      types.Optional[string] `json:"channel_url"`
	DurationMinutes types.FlexInt          `json:"duration_minutes"`
	ThumbnailURL    types.Optional[string] `json:"thumbnail_url"`
	VideoID         types.Optional[string] `json:"video_id"`
	// Article metadata
	Author             types.Optional[string] `json:"author"`
	SiteName           types.Optional[string] `json:"site_name"`
	SiteFavicon        types.Optional[string] `json:"site_favicon"`
	ReadingTimeMinutes types.FlexInt          `json:"reading_time_minutes"`
	// Book metadata
	Publisher     types.Optional[string] `json:"publisher"`
	ISBN          types.Optional[string] `json:"isbn"`
	PageCount     types.FlexInt          `json:"page_count"`
	CoverImageURL types.Optional[string] `json:"cover_image_url"`
	PublishedYear types.FlexInt          `json:"published_year"`
}

// ContentPayload is the untyped inbound shape for both create and update.
// Every field tracks present/absent so updates can be strictly partial.
type ContentPayload struct {
	Type          types.Optional[string] `json:"type"`
	Status        types.Optional[string] `json:"status"`
	Title         types.Optional[string] `json:"title"`
	URL           types.Optional[string] `json:"url"`
	Description   types.Optional[string] `json:"description"`
	Summary       types.Optional[string] `json:"summary"`
	RelatedLinks  *[]RelatedLink         `json:"related_links"`
	Rating        types.Optional[int]    `json:"rating"`
	PersonalNotes types.Optional[string] `json:"personal_notes"`
	ListIDs       []uint                 `json:"listIds"`
	Tags          *[]string              `json:"tags"`
	Metadata      *ContentMetadata       `json:"metadata"`
}

// Normalize converts supplied empty strings to null on the nullable text
// fields, mirroring what an emptied form input means.
func (p *ContentPayload) Normalize() {
	emptyToNull(&p.URL)
	emptyToNull(&p.Description)
	emptyToNull(&p.Summary)
	emptyToNull(&p.PersonalNotes)
	if p.Metadata != nil {
		m := p.Metadata
		emptyToNull(&m.ChannelName)
		emptyToNull(&m.ChannelURL)
		emptyToNull(&m.ThumbnailURL)
		emptyToNull(&m.VideoID)
		emptyToNull(&m.Author)
		emptyToNull(&m.SiteName)
		emptyToNull(&m.SiteFavicon)
		emptyToNull(&m.Publisher)
		emptyToNull(&m.ISBN)
		emptyToNull(&m.CoverImageURL)
	}
}

func emptyToNull(o *types.Optional[string]) {
	if o.Valid && o.Value == "" {
		o.Valid = false
	}
}

// ValidateCreate checks a full creation payload. The video/url rule is a
// cross-field refinement applied after the per-field checks, reported on the
// url field.
func (p *ContentPayload) ValidateCreate() FieldErrors {
	errs := FieldErrors{}

	if !p.Type.Valid {
		errs.add("type", "type is required")
	} else if !validContentType(p.Type.Value) {
		errs.add("type", "type must be one of video, article, book")
	}

	if !p.Title.Valid || p.Title.Value == "" {
		errs.add("title", "title is required")
	}

	p.validateFields(errs)

	// URL is mandatory for videos
	if p.Type.Valid && p.Type.Value == string(models.ContentTypeVideo) {
		if !p.URL.Valid || strings.TrimSpace(p.URL.Value) == "" {
			errs.add("url", "url is required for videos")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdate checks a partial payload: only fields actually present are
// validated, and the video/url refinement is not re-applied.
func (p *ContentPayload) ValidateUpdate() FieldErrors {
	errs := FieldErrors{}

	if p.Type.Set {
		if !p.Type.Valid || !validContentType(p.Type.Value) {
			errs.add("type", "type must be one of video, article, book")
		}
	}

	if p.Title.Set {
		if !p.Title.Valid || p.Title.Value == "" {
			errs.add("title", "title must not be empty")
		}
	}

	p.validateFields(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateFields holds the checks shared by create and update. They all apply
// to supplied values only, so partial payloads are naturally covered.
func (p *ContentPayload) validateFields(errs FieldErrors) {
	if p.Status.Valid && !validContentStatus(p.Status.Value) {
		errs.add("status", "status must be pending or completed")
	}

	if p.Title.Valid && utf8.RuneCountInString(p.Title.Value) > maxTitleLen {
		errs.add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	if p.URL.Valid && !validURL(p.URL.Value) {
		errs.add("url", "invalid URL")
	}

	checkMaxLen(errs, "description", p.Description, maxDescriptionLen)
	checkMaxLen(errs, "summary", p.Summary, maxSummaryLen)
	checkMaxLen(errs, "personal_notes", p.PersonalNotes, maxPersonalNotesLen)

	if p.Rating.Valid && (p.Rating.Value < 1 || p.Rating.Value > 5) {
		errs.add("rating", "rating must be between 1 and 5")
	}

	if p.RelatedLinks != nil {
		links := *p.RelatedLinks
		if len(links) > maxRelatedLinks {
			errs.add("related_links", fmt.Sprintf("at most %d related links allowed", maxRelatedLinks))
		}
		for i, link := range links {
			if link.Title == "" {
				errs.add(fmt.Sprintf("related_links[%d].title", i), "title is required")
			} else if utf8.RuneCountInString(link.Title) > maxRelatedLinkTitle {
				errs.add(fmt.Sprintf("related_links[%d].title", i), fmt.Sprintf("title must be at most %d characters", maxRelatedLinkTitle))
			}
			if !validURL(link.URL) {
				errs.add(fmt.Sprintf("related_links[%d].url", i), "invalid URL")
			}
		}
	}

	if p.Tags != nil {
		tags := *p.Tags
		if len(tags) > maxTags {
			errs.add("tags", fmt.Sprintf("at most %d tags allowed", maxTags))
		}
		for i, tag := range tags {
			if utf8.RuneCountInString(tag) > maxTagLen {
				errs.add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("tag must be at most %d characters", maxTagLen))
			}
		}
	}

	if p.Metadata != nil {
		m := p.Metadata
		checkOptionalURL(errs, "metadata.channel_url", m.ChannelURL)
		checkOptionalURL(errs, "metadata.thumbnail_url", m.ThumbnailURL)
		checkOptionalURL(errs, "metadata.site_favicon", m.SiteFavicon)
		checkOptionalURL(errs, "metadata.cover_image_url", m.CoverImageURL)
		checkPositive(errs, "metadata.duration_minutes", m.DurationMinutes)
		checkPositive(errs, "metadata.reading_time_minutes", m.ReadingTimeMinutes)
		checkPositive(errs, "metadata.page_count", m.PageCount)
	}
}

func checkMaxLen(errs FieldErrors, field string, o types.Optional[string], max int) {
	if o.Valid && utf8.RuneCountInString(o.Value) > max {
		errs.add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
}

func checkOptionalURL(errs FieldErrors, field string, o types.Optional[string]) {
	if o.Valid && !validURL(o.Value) {
		errs.add(field, "invalid URL")
	}
}

func checkPositive(errs FieldErrors, field string, f types.FlexInt) {
	if f.Valid && f.Value <= 0 {
		errs.add(field, "must be a positive number")
	}
}

func validContentType(s string) bool {
	switch models.ContentType(s) {
	case models.ContentTypeVideo, models.ContentTypeArticle, models.ContentTypeBook:
		return true
	}
	return false
}

func validContentStatus(s string) bool {
	switch models.ContentStatus(s) {
	case models.ContentStatusPending, models.ContentStatusCompleted:
		return true
	}
	return false
}
