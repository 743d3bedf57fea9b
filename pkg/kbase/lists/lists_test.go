package lists

import (
	"bytes"
	"encoding/json"
	"fmt"
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

func createTestContent(t *testing.T, db *gorm.DB, userID uint, title string) models.Content {
	item := models.Content{UserID: userID, Type: models.ContentTypeArticle, Status: models.ContentStatusPending, Title: title}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create test content: %v", err)
	}
	return item
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

func doJSON(router *gin.Engine, user models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateListDefaults(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	resp := doJSON(router, user, "POST", "/api/lists", map[string]interface{}{"name": "Reading queue"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var list models.List
	json.Unmarshal(resp.Body.Bytes(), &list)
	if list.Color != "#6366f1" {
		t.Errorf("Expected default color, got %s", list.Color)
	}
	if list.Icon != "folder" {
		t.Errorf("Expected default icon, got %s", list.Icon)
	}
}

func TestCreateListRequiresName(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	resp := doJSON(router, user, "POST", "/api/lists", map[string]interface{}{"color": "#FF0000"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestListsIncludeContentCounts(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	list := models.List{UserID: user.ID, Name: "Queue", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	item := createTestContent(t, db, user.ID, "Queued item")
	db.Create(&models.ContentList{ContentID: item.ID, ListID: list.ID})

	resp := doJSON(router, user, "GET", "/api/lists", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result []ListResponse
	json.Unmarshal(resp.Body.Bytes(), &result)
	if len(result) != 1 {
		t.Fatalf("Expected 1 list, got %d", len(result))
	}
	if result[0].ContentCount != 1 {
		t.Errorf("Expected content_count 1, got %d", result[0].ContentCount)
	}
}

func TestGetListWithContents(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	list := models.List{UserID: user.ID, Name: "Queue", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	item := createTestContent(t, db, user.ID, "Member")
	createTestContent(t, db, user.ID, "Non-member")
	db.Create(&models.ContentList{ContentID: item.ID, ListID: list.ID})

	resp := doJSON(router, user, "GET", fmt.Sprintf("/api/lists/%d", list.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var detail DetailResponse
	json.Unmarshal(resp.Body.Bytes(), &detail)
	if detail.ContentCount != 1 || len(detail.Contents) != 1 {
		t.Fatalf("Expected exactly the member item, got %d", len(detail.Contents))
	}
	if detail.Contents[0].Title != "Member" {
		t.Errorf("Expected 'Member', got %s", detail.Contents[0].Title)
	}
}

func TestUpdateListPartial(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	desc := "old description"
	list := models.List{UserID: user.ID, Name: "Old name", Description: &desc, Color: "#6366f1", Icon: "folder"}
	db.Create(&list)

	resp := doJSON(router, user, "PUT", fmt.Sprintf("/api/lists/%d", list.ID), map[string]interface{}{"name": "New name"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var updated models.List
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Name != "New name" {
		t.Errorf("Expected new name, got %s", updated.Name)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Errorf("Expected description untouched, got %v", updated.Description)
	}
}

func TestDeleteListKeepsContent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	list := models.List{UserID: user.ID, Name: "Doomed", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	item := createTestContent(t, db, user.ID, "Survivor")
	db.Create(&models.ContentList{ContentID: item.ID, ListID: list.ID})

	resp := doJSON(router, user, "DELETE", fmt.Sprintf("/api/lists/%d", list.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.List{}).Where("id = ?", list.ID).Count(&count)
	if count != 0 {
		t.Error("Expected list gone")
	}
	db.Model(&models.ContentList{}).Where("list_id = ?", list.ID).Count(&count)
	if count != 0 {
		t.Error("Expected associations gone")
	}
	db.Model(&models.Content{}).Where("id = ?", item.ID).Count(&count)
	if count != 1 {
		t.Error("Expected content to survive list deletion")
	}
}

func TestAddContentsDiffsExistingMembers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	list := models.List{UserID: user.ID, Name: "Queue", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	a := createTestContent(t, db, user.ID, "A")
	b := createTestContent(t, db, user.ID, "B")
	path := fmt.Sprintf("/api/lists/%d/contents", list.ID)

	resp := doJSON(router, user, "POST", path, map[string]interface{}{"contentIds": []uint{a.ID}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result struct {
		Added int `json:"added"`
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Added != 1 {
		t.Errorf("Expected added 1, got %d", result.Added)
	}

	// Re-adding A alongside B only adds B
	resp = doJSON(router, user, "POST", path, map[string]interface{}{"contentIds": []uint{a.ID, b.ID}})
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Added != 1 {
		t.Errorf("Expected added 1 on mixed batch, got %d", result.Added)
	}

	// Everything already present
	resp = doJSON(router, user, "POST", path, map[string]interface{}{"contentIds": []uint{a.ID, b.ID}})
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Added != 0 {
		t.Errorf("Expected added 0 when all present, got %d", result.Added)
	}
}

func TestAddContentsSkipsForeignContent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	list := models.List{UserID: owner.ID, Name: "Queue", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	foreign := createTestContent(t, db, other.ID, "Not yours")

	resp := doJSON(router, owner, "POST", fmt.Sprintf("/api/lists/%d/contents", list.ID), map[string]interface{}{
		"contentIds": []uint{foreign.ID},
	})
	var result struct {
		Added int `json:"added"`
	}
	json.Unmarshal(resp.Body.Bytes(), &result)
	if result.Added != 0 {
		t.Errorf("Expected foreign content skipped, got added %d", result.Added)
	}
}

func TestAddContentsForeignList(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	list := models.List{UserID: owner.ID, Name: "Private", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	item := createTestContent(t, db, other.ID, "Item")

	resp := doJSON(router, other, "POST", fmt.Sprintf("/api/lists/%d/contents", list.ID), map[string]interface{}{
		"contentIds": []uint{item.ID},
	})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on foreign list, got %d", resp.Code)
	}
}

func TestRemoveContentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	list := models.List{UserID: user.ID, Name: "Queue", Color: "#6366f1", Icon: "folder"}
	db.Create(&list)
	item := createTestContent(t, db, user.ID, "Item")
	db.Create(&models.ContentList{ContentID: item.ID, ListID: list.ID})
	path := fmt.Sprintf("/api/lists/%d/contents", list.ID)

	resp := doJSON(router, user, "DELETE", path, map[string]interface{}{"contentId": item.ID})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	// A second removal is a no-op, not an error
	resp = doJSON(router, user, "DELETE", path, map[string]interface{}{"contentId": item.ID})
	if resp.Code != http.StatusOK {
		t.Errorf("Expected idempotent 200, got %d", resp.Code)
	}

	var count int64
	db.Model(&models.ContentList{}).Where("list_id = ?", list.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected no associations, got %d", count)
	}
}
