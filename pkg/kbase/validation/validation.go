// Package validation turns untyped request payloads into normalized records
// or a structured set of per-field errors. Nothing that fails validation ever
// reaches the database.
package validation

import (
	"net/url"
	"sort"
	"strings"
)

// FieldErrors maps a field path to its first failing message
type FieldErrors map[string]string

// Error implements the error interface
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(e[f])
	}
	return b.String()
}

// add records the first error seen for a field, matching how schema libraries
// report one message per path
func (e FieldErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// validURL reports whether s parses as an absolute URL with a host
func validURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
