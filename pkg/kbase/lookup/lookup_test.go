package lookup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func testHandler() *Handler {
	return &Handler{client: &http.Client{Timeout: 5 * time.Second}}
}

func TestExtractVideoID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":       "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                      "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":         "dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ":             "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abc123":             "abc123",
		"https://www.youtube.com/live/xyz789":               "xyz789",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s": "dQw4w9WgXcQ",
		"https://vimeo.com/123456":                          "",
		"not a url":                                         "",
	}
	for url, want := range cases {
		if got := ExtractVideoID(url); got != want {
			t.Errorf("ExtractVideoID(%q) = %q, want %q", url, got, want)
		}
	}
}

func TestExtractBookID(t *testing.T) {
	cases := map[string]string{
		"https://books.google.com/books?id=abcDEF123456":                  "abcDEF123456",
		"https://books.google.es/books/about/Title.html?hl=en&id=xyzXYZ_-9876": "xyzXYZ_-9876",
		"abcDEF123456":    "abcDEF123456",
		"golang patterns": "",
		"short":           "",
	}
	for input, want := range cases {
		if got := ExtractBookID(input); got != want {
			t.Errorf("ExtractBookID(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestYouTubeLookup(t *testing.T) {
	noembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("url"), "watch?v=dQw4w9WgXcQ") {
			t.Errorf("Expected canonical watch URL, got %q", r.URL.Query().Get("url"))
		}
		json.NewEncoder(w).Encode(map[string]string{
			"title":       "Test Video",
			"author_name": "Test Channel",
			"author_url":  "https://www.youtube.com/@testchannel",
		})
	}))
	defer noembed.Close()

	watch := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><script>var ytInitialPlayerResponse = {"videoDetails":{"shortDescription":"A short description"}};</script></html>`))
	}))
	defer watch.Close()

	h := testHandler()
	h.noembedBaseURL = noembed.URL
	h.watchBaseURL = watch.URL
	router := setupTestRouter(h)

	req, _ := http.NewRequest("GET", "/api/youtube?url="+`https://www.youtube.com/shorts/dQw4w9WgXcQ`, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result VideoResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Title == nil || *result.Title != "Test Video" {
		t.Errorf("Expected title from oEmbed, got %v", result.Title)
	}
	if result.Description == nil || *result.Description != "A short description" {
		t.Errorf("Expected scraped description, got %v", result.Description)
	}
	if result.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("Expected video id, got %s", result.VideoID)
	}
	// No oEmbed thumbnail, so the img host fallback applies
	if result.ThumbnailURL == nil || !strings.Contains(*result.ThumbnailURL, "img.youtube.com/vi/dQw4w9WgXcQ") {
		t.Errorf("Expected thumbnail fallback, got %v", result.ThumbnailURL)
	}
	if result.DurationMinutes != nil {
		t.Error("Expected null duration")
	}
}

func TestYouTubeLookupDescriptionTruncation(t *testing.T) {
	long := strings.Repeat("x", 600)
	noembed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"title": "T"})
	}))
	defer noembed.Close()
	watch := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`var ytInitialPlayerResponse = {"videoDetails":{"shortDescription":"` + long + `"}};`))
	}))
	defer watch.Close()

	h := testHandler()
	h.noembedBaseURL = noembed.URL
	h.watchBaseURL = watch.URL
	router := setupTestRouter(h)

	req, _ := http.NewRequest("GET", "/api/youtube?url=https://youtu.be/abc", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var result VideoResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Description == nil {
		t.Fatal("Expected a description")
	}
	if len(*result.Description) != 503 || !strings.HasSuffix(*result.Description, "...") {
		t.Errorf("Expected 500-char truncation with ellipsis, got %d chars", len(*result.Description))
	}
}

func TestYouTubeLookupInvalidURL(t *testing.T) {
	router := setupTestRouter(testHandler())

	req, _ := http.NewRequest("GET", "/api/youtube?url=https://vimeo.com/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

const volumeJSON = `{
	"id": "abcDEF123456",
	"volumeInfo": {
		"title": "The Go Programming Language",
		"authors": ["Alan A. A. Donovan", "Brian W. Kernighan"],
		"publisher": "Addison-Wesley",
		"publishedDate": "2015-10-26",
		"description": "<p>The authoritative resource.</p><p>Hundreds of &amp; examples.</p>",
		"industryIdentifiers": [
			{"type": "ISBN_10", "identifier": "0134190440"},
			{"type": "ISBN_13", "identifier": "9780134190440"}
		],
		"pageCount": 380,
		"imageLinks": {"thumbnail": "http://books.google.com/books/content?id=x&zoom=1&edge=curl"}
	}
}`

func TestBooksSearch(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("maxResults") != "10" || r.URL.Query().Get("printType") != "books" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"totalItems":1,"items":[` + volumeJSON + `]}`))
	}))
	defer api.Close()

	h := testHandler()
	h.booksBaseURL = api.URL
	router := setupTestRouter(h)

	req, _ := http.NewRequest("GET", "/api/books?q=go+programming", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Results []BookResult `json:"results"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(body.Results))
	}

	book := body.Results[0]
	if book.ISBN == nil || *book.ISBN != "9780134190440" {
		t.Errorf("Expected ISBN-13 preferred, got %v", book.ISBN)
	}
	if book.PublishedYear == nil || *book.PublishedYear != 2015 {
		t.Errorf("Expected year 2015, got %v", book.PublishedYear)
	}
	if book.Author == nil || *book.Author != "Alan A. A. Donovan, Brian W. Kernighan" {
		t.Errorf("Expected joined authors, got %v", book.Author)
	}
	if book.Description == nil || strings.Contains(*book.Description, "<p>") {
		t.Errorf("Expected HTML stripped, got %v", book.Description)
	}
	if !strings.Contains(*book.Description, "Hundreds of & examples.") {
		t.Errorf("Expected entities decoded, got %q", *book.Description)
	}
	if book.CoverImageURL == nil || !strings.HasPrefix(*book.CoverImageURL, "https://") ||
		!strings.Contains(*book.CoverImageURL, "zoom=0") || strings.Contains(*book.CoverImageURL, "edge=curl") {
		t.Errorf("Unexpected cover URL: %v", book.CoverImageURL)
	}
}

func TestBooksDirectVolumeLookup(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes/abcDEF123456" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(volumeJSON))
	}))
	defer api.Close()

	h := testHandler()
	h.booksBaseURL = api.URL
	router := setupTestRouter(h)

	// A pasted catalog URL in q short-circuits to the direct lookup
	req, _ := http.NewRequest("GET", "/api/books?q=https%3A%2F%2Fbooks.google.com%2Fbooks%3Fid%3DabcDEF123456", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Results []BookResult `json:"results"`
	}
	json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body.Results) != 1 || body.Results[0].ID != "abcDEF123456" {
		t.Errorf("Expected single direct result, got %+v", body.Results)
	}
}

func TestBooksQueryTooShort(t *testing.T) {
	router := setupTestRouter(testHandler())

	req, _ := http.NewRequest("GET", "/api/books?q=a", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestBooksVolumeNotFound(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer api.Close()

	h := testHandler()
	h.booksBaseURL = api.URL
	router := setupTestRouter(h)

	req, _ := http.NewRequest("GET", "/api/books?id=missing000000", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
