package lookup

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type booksVolume struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		PageCount  int `json:"pageCount"`
		ImageLinks struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

type booksSearchResponse struct {
	TotalItems int           `json:"totalItems"`
	Items      []booksVolume `json:"items"`
}

// BookResult is one normalized book catalog candidate
type BookResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        *string `json:"author"`
	Publisher     *string `json:"publisher"`
	Description   *string `json:"description"`
	ISBN          *string `json:"isbn"`
	PageCount     *int    `json:"page_count"`
	PublishedYear *int    `json:"published_year"`
	CoverImageURL *string `json:"cover_image_url"`
}

var (
	htmlParagraphPattern = regexp.MustCompile(`(?i)</p>\s*<p>`)
	htmlBreakPattern     = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagPattern       = regexp.MustCompile(`<[^>]+>`)
	blankRunPattern      = regexp.MustCompile(`\n{3,}`)
	yearPattern          = regexp.MustCompile(`(\d{4})`)
	booksURLPattern      = regexp.MustCompile(`books\.google\.[^/]+/books(?:/about)?[^?]*\?.*id=([a-zA-Z0-9_-]+)`)
	bareVolumeIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{12}$`)
)

// cleanDescription strips the catalog's HTML markup down to plain text
func cleanDescription(html string) *string {
	if html == "" {
		return nil
	}

	text := htmlParagraphPattern.ReplaceAllString(html, "\n\n")
	text = htmlBreakPattern.ReplaceAllString(text, "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	text = replacer.Replace(text)
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}

// improveImageURL rewrites the catalog's thumbnail URL for full resolution
// over https, without the page-curl border
func improveImageURL(raw string) *string {
	if raw == "" {
		return nil
	}
	improved := strings.Replace(raw, "zoom=1", "zoom=0", 1)
	improved = strings.Replace(improved, "&edge=curl", "", 1)
	improved = strings.Replace(improved, "http://", "https://", 1)
	return &improved
}

// ExtractBookID recognizes a Google Books URL or a bare 12-char volume id.
// Returns "" when the input is an ordinary search term.
func ExtractBookID(input string) string {
	if m := booksURLPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	if bareVolumeIDPattern.MatchString(input) {
		return input
	}
	return ""
}

func normalizeVolume(v booksVolume) BookResult {
	info := v.VolumeInfo

	var isbn *string
	var isbn10 *string
	for i := range info.IndustryIdentifiers {
		id := info.IndustryIdentifiers[i]
		switch id.Type {
		case "ISBN_13":
			isbn = &info.IndustryIdentifiers[i].Identifier
		case "ISBN_10":
			isbn10 = &info.IndustryIdentifiers[i].Identifier
		}
	}
	if isbn == nil {
		isbn = isbn10
	}

	var year *int
	if m := yearPattern.FindStringSubmatch(info.PublishedDate); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			year = &y
		}
	}

	var pageCount *int
	if info.PageCount > 0 {
		pageCount = &info.PageCount
	}

	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	var author *string
	if len(info.Authors) > 0 {
		joined := strings.Join(info.Authors, ", ")
		author = &joined
	}

	return BookResult{
		ID:            v.ID,
		Title:         title,
		Author:        author,
		Publisher:     optional(info.Publisher),
		Description:   cleanDescription(info.Description),
		ISBN:          isbn,
		PageCount:     pageCount,
		PublishedYear: year,
		CoverImageURL: improveImageURL(info.ImageLinks.Thumbnail),
	}
}

// fetchVolume looks up a single volume by id
func (h *Handler) fetchVolume(id string) (*BookResult, error) {
	resp, err := h.client.Get(h.booksBaseURL + "/volumes/" + url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var volume booksVolume
	if err := json.NewDecoder(resp.Body).Decode(&volume); err != nil {
		return nil, err
	}
	result := normalizeVolume(volume)
	return &result, nil
}

// Books searches the book catalog, or looks up a single volume when the query
// is a catalog URL or volume id
// @Summary Search the book catalog
// @Description Search by title/author, or paste a Google Books URL or volume id
// @Tags lookup
// @Produce json
// @Param q query string false "Search term, catalog URL, or volume id"
// @Param id query string false "Volume id for direct lookup"
// @Success 200 {object} map[string][]BookResult
// @Failure 400 {object} map[string]string "Missing or short query"
// @Failure 404 {object} map[string]string "Volume not found"
// @Security BearerAuth
// @Router /books [get]
func (h *Handler) Books(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		result, err := h.fetchVolume(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch book"})
			return
		}
		if result == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": []BookResult{*result}})
		return
	}

	query := c.Query("q")
	if len(strings.TrimSpace(query)) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term must be at least 2 characters"})
		return
	}

	// A pasted catalog URL or bare volume id short-circuits the search
	if id := ExtractBookID(query); id != "" {
		if result, err := h.fetchVolume(id); err == nil && result != nil {
			c.JSON(http.StatusOK, gin.H{"results": []BookResult{*result}})
			return
		}
	}

	searchURL := h.booksBaseURL + "/volumes?q=" + url.QueryEscape(query) + "&maxResults=10&printType=books"
	resp, err := h.client.Get(searchURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search books"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search books"})
		return
	}

	var data booksSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search books"})
		return
	}

	results := make([]BookResult, len(data.Items))
	for i, item := range data.Items {
		results[i] = normalizeVolume(item)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
