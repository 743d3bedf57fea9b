package tags

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{Email: email, PasswordHash: hash, Name: "Test User"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Go  ":     "go",
		"MACHINE":    "machine",
		"already-ok": "already-ok",
		"   ":        "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetOrCreateIsIdempotentAcrossSpellings(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")

	first, err := GetOrCreate(db, user.ID, " AI ")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, err := GetOrCreate(db, user.ID, "ai")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Expected same tag row, got %d and %d", first.ID, second.ID)
	}
	if first.Name != "ai" {
		t.Errorf("Expected normalized name 'ai', got %q", first.Name)
	}

	var count int64
	db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single tag row, got %d", count)
	}
}

func TestGetOrCreateEmptyName(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")

	tag, err := GetOrCreate(db, user.ID, "   ")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if tag != nil {
		t.Errorf("Expected nil tag for empty name, got %+v", tag)
	}
}

func TestGetOrCreateScopedPerUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	aliceTag, _ := GetOrCreate(db, alice.ID, "go")
	bobTag, _ := GetOrCreate(db, bob.ID, "go")

	if aliceTag.ID == bobTag.ID {
		t.Error("Expected separate tag rows per user")
	}
}

func TestListTagsWithCounts(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	popular, _ := GetOrCreate(db, user.ID, "popular")
	rare, _ := GetOrCreate(db, user.ID, "rare")
	GetOrCreate(db, user.ID, "unused")

	for i := 0; i < 2; i++ {
		item := models.Content{UserID: user.ID, Type: models.ContentTypeArticle, Status: models.ContentStatusPending, Title: "A"}
		db.Create(&item)
		db.Create(&models.ContentTag{ContentID: item.ID, TagID: popular.ID})
		if i == 0 {
			db.Create(&models.ContentTag{ContentID: item.ID, TagID: rare.ID})
		}
	}

	req, _ := http.NewRequest("GET", "/api/tags", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result []TagResponse
	json.Unmarshal(resp.Body.Bytes(), &result)
	if len(result) != 3 {
		t.Fatalf("Expected 3 tags, got %d", len(result))
	}
	if result[0].Name != "popular" || result[0].Count != 2 {
		t.Errorf("Expected 'popular' with count 2 first, got %+v", result[0])
	}
	if result[2].Name != "unused" || result[2].Count != 0 {
		t.Errorf("Expected 'unused' with count 0 last, got %+v", result[2])
	}
}
