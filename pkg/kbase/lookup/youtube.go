package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler serves metadata lookups against external catalogs. The endpoints
// are advisory: the frontend uses them to pre-fill forms, and every value can
// still be entered by hand.
type Handler struct {
	client         *http.Client
	noembedBaseURL string
	watchBaseURL   string
	booksBaseURL   string
}

// NewHandler creates a lookup handler against the real upstream services
func NewHandler() *Handler {
	return &Handler{
		client:         &http.Client{Timeout: 10 * time.Second},
		noembedBaseURL: "https://noembed.com",
		watchBaseURL:   "https://www.youtube.com",
		booksBaseURL:   "https://www.googleapis.com/books/v1",
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/live/([^&\n?#]+)`),
}

// ExtractVideoID pulls the video id out of the common YouTube URL shapes.
// Returns "" when the URL is not recognized.
func ExtractVideoID(rawURL string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

type noembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error"`
}

// VideoResult is the pre-fill payload for a video
type VideoResult struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ChannelName  *string `json:"channel_name"`
	ChannelURL   *string `json:"channel_url"`
	ThumbnailURL *string `json:"thumbnail_url"`
	VideoID      string  `json:"video_id"`
	// Duration is not available without the paid data API
	DurationMinutes *int `json:"duration_minutes"`
}

var (
	playerResponsePattern  = regexp.MustCompile(`var ytInitialPlayerResponse\s*=\s*(\{[\s\S]+?\});`)
	metaDescriptionPattern = regexp.MustCompile(`(?i)<meta\s+name="description"\s+content="([^"]+)"`)
)

const maxScrapedDescriptionLen = 500

// fetchDescription scrapes the watch page for the video description. Any
// failure degrades to no description.
func (h *Handler) fetchDescription(videoID string) *string {
	req, err := http.NewRequest(http.MethodGet, h.watchBaseURL+"/watch?v="+url.QueryEscape(videoID), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil
	}
	html := string(body)

	if m := playerResponsePattern.FindStringSubmatch(html); m != nil {
		var player struct {
			VideoDetails struct {
				ShortDescription string `json:"shortDescription"`
			} `json:"videoDetails"`
		}
		if json.Unmarshal([]byte(m[1]), &player) == nil && player.VideoDetails.ShortDescription != "" {
			desc := player.VideoDetails.ShortDescription
			if len(desc) > maxScrapedDescriptionLen {
				desc = desc[:maxScrapedDescriptionLen] + "..."
			}
			return &desc
		}
	}

	if m := metaDescriptionPattern.FindStringSubmatch(html); m != nil {
		return &m[1]
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// YouTube looks up metadata for a YouTube video URL
// @Summary Look up YouTube video metadata
// @Description Fetch title, channel, thumbnail and description for a video URL
// @Tags lookup
// @Produce json
// @Param url query string true "YouTube video URL"
// @Success 200 {object} VideoResult
// @Failure 400 {object} map[string]string "Invalid URL"
// @Security BearerAuth
// @Router /youtube [get]
func (h *Handler) YouTube(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
		return
	}

	// noembed does not understand /shorts/ or /live/ URLs, so always hand it
	// the canonical watch form
	canonical := "https://www.youtube.com/watch?v=" + videoID

	descCh := make(chan *string, 1)
	go func() {
		descCh <- h.fetchDescription(videoID)
	}()

	resp, err := h.client.Get(h.noembedBaseURL + "/embed?url=" + url.QueryEscape(canonical))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video metadata"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video metadata"})
		return
	}

	var data noembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video metadata"})
		return
	}
	if data.Error != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": data.Error})
		return
	}

	thumbnail := data.ThumbnailURL
	if thumbnail == "" {
		thumbnail = fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID)
	}

	c.JSON(http.StatusOK, VideoResult{
		Title:        optional(data.Title),
		Description:  <-descCh,
		ChannelName:  optional(data.AuthorName),
		ChannelURL:   optional(data.AuthorURL),
		ThumbnailURL: &thumbnail,
		VideoID:      videoID,
	})
}

// RegisterRoutes registers lookup routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/youtube", h.YouTube)
	rg.GET("/books", h.Books)
}
