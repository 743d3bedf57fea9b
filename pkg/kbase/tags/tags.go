// Package tags implements user-scoped tags: get-or-create semantics keyed by
// normalized name, and the tag listing endpoint.
package tags

import (
	"strings"

	"github.com/kbase-app/kbase/pkg/kbase/models"
	"gorm.io/gorm"
)

// Normalize trims and lower-cases a raw tag name
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// GetOrCreate looks up a tag by (userID, normalized name), creating it if
// absent. An empty-after-trim name is a no-op and returns (nil, nil). If a
// concurrent insert wins the race on the uniqueness constraint, the existing
// row is re-fetched instead of failing.
func GetOrCreate(db *gorm.DB, userID uint, rawName string) (*models.Tag, error) {
	name := Normalize(rawName)
	if name == "" {
		return nil, nil
	}

	var tag models.Tag
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error; err == nil {
		return &tag, nil
	}

	tag = models.Tag{UserID: userID, Name: name}
	if err := db.Create(&tag).Error; err != nil {
		// Lost the race: someone else inserted the same (user, name)
		var existing models.Tag
		if err2 := db.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &tag, nil
}
