package apiutil

import (
	"net/http"
	"strings"
)

// PathID returns the trimmed path value, or a FieldError when it is blank.
func PathID(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	if raw == "" {
		return "", FieldError{Field: name, Reason: "is required"}
	}
	return raw, nil
}

// QueryValue returns the trimmed query parameter.
func QueryValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// RequireField fails with a FieldError when value is blank.
func RequireField(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return FieldError{Field: field, Reason: "is required"}
	}
	return nil
}
