package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/kbase-app/kbase/pkg/kbase/types"
)

const (
	maxListNameLen        = 100
	maxListDescriptionLen = 500
	maxListIconLen        = 50

	// DefaultListColor is applied when a list payload omits color
	DefaultListColor = "#6366f1"
	// DefaultListIcon is applied when a list payload omits icon
	DefaultListIcon = "folder"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ListPayload is the inbound shape for creating or updating a list
type ListPayload struct {
	Name        types.Optional[string] `json:"name"`
	Description types.Optional[string] `json:"description"`
	Color       types.Optional[string] `json:"color"`
	Icon        types.Optional[string] `json:"icon"`
}

// ValidateCreate checks a full list creation payload
func (p *ListPayload) ValidateCreate() FieldErrors {
	errs := FieldErrors{}

	if !p.Name.Valid || p.Name.Value == "" {
		errs.add("name", "name is required")
	}

	p.validateFields(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateUpdate checks a partial list payload
func (p *ListPayload) ValidateUpdate() FieldErrors {
	errs := FieldErrors{}

	if p.Name.Set && (!p.Name.Valid || p.Name.Value == "") {
		errs.add("name", "name must not be empty")
	}

	p.validateFields(errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *ListPayload) validateFields(errs FieldErrors) {
	if p.Name.Valid && utf8.RuneCountInString(p.Name.Value) > maxListNameLen {
		errs.add("name", fmt.Sprintf("name must be at most %d characters", maxListNameLen))
	}

	checkMaxLen(errs, "description", p.Description, maxListDescriptionLen)

	if p.Color.Valid && !colorPattern.MatchString(p.Color.Value) {
		errs.add("color", "color must be a hex value like #6366f1")
	}

	if p.Icon.Valid && utf8.RuneCountInString(p.Icon.Value) > maxListIconLen {
		errs.add("icon", fmt.Sprintf("icon must be at most %d characters", maxListIconLen))
	}
}
