package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/kbase-app/kbase/pkg/kbase/types"
)

const maxDisplayNameLen = 100

// PreferencesPayload is the inbound shape for updating user preferences.
// All fields are optional; only supplied fields are applied.
type PreferencesPayload struct {
	DisplayName      types.Optional[string] `json:"display_name"`
	DefaultView      types.Optional[string] `json:"default_view"`
	DefaultSort      types.Optional[string] `json:"default_sort"`
	DefaultSortOrder types.Optional[string] `json:"default_sort_order"`
	ItemsPerPage     types.Optional[int]    `json:"items_per_page"`
}

// Validate checks the supplied preference fields
func (p *PreferencesPayload) Validate() FieldErrors {
	errs := FieldErrors{}

	if p.DisplayName.Valid && utf8.RuneCountInString(p.DisplayName.Value) > maxDisplayNameLen {
		errs.add("display_name", fmt.Sprintf("display_name must be at most %d characters", maxDisplayNameLen))
	}

	if p.DefaultView.Set {
		if !p.DefaultView.Valid || (p.DefaultView.Value != "list" && p.DefaultView.Value != "grid") {
			errs.add("default_view", "default_view must be list or grid")
		}
	}

	if p.DefaultSort.Set {
		valid := map[string]bool{"created_at": true, "updated_at": true, "title": true, "rating": true}
		if !p.DefaultSort.Valid || !valid[p.DefaultSort.Value] {
			errs.add("default_sort", "default_sort must be one of created_at, updated_at, title, rating")
		}
	}

	if p.DefaultSortOrder.Set {
		if !p.DefaultSortOrder.Valid || (p.DefaultSortOrder.Value != "asc" && p.DefaultSortOrder.Value != "desc") {
			errs.add("default_sort_order", "default_sort_order must be asc or desc")
		}
	}

	if p.ItemsPerPage.Set {
		if !p.ItemsPerPage.Valid || (p.ItemsPerPage.Value != 10 && p.ItemsPerPage.Value != 20 && p.ItemsPerPage.Value != 50) {
			errs.add("items_per_page", "items_per_page must be 10, 20 or 50")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
