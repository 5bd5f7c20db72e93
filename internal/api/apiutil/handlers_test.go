package apiutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/Matchpoint/internal/api/authz"
	"github.com/codr1/Matchpoint/internal/apperr"
)

func TestWriteError_MapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", apperr.Validation("bad date"), http.StatusBadRequest, "validation"},
		{"not found", apperr.NotFound("match not found"), http.StatusNotFound, "not_found"},
		{"conflict", fmt.Errorf("join: %w", apperr.Conflict("match is full")), http.StatusConflict, "conflict"},
		{"forbidden", apperr.Forbidden("not the organizer"), http.StatusForbidden, "forbidden"},
		{"unavailable", apperr.Unavailable("match is busy"), http.StatusServiceUnavailable, "unavailable"},
		{"field", FieldError{Field: "date", Reason: "is required"}, http.StatusBadRequest, "validation"},
		{"unauthenticated", authz.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"handler", HandlerError{Status: http.StatusNotFound, Message: "gone"}, http.StatusNotFound, "not_found"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			WriteError(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

			if recorder.Code != tc.status {
				t.Fatalf("status: got %d want %d", recorder.Code, tc.status)
			}
			var body errorBody
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Kind != tc.kind {
				t.Fatalf("kind: got %s want %s", body.Kind, tc.kind)
			}
		})
	}
}

func TestWriteError_HidesInternalMessages(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("select failed: secret detail"))

	if strings.Contains(recorder.Body.String(), "secret detail") {
		t.Fatalf("internal error leaked: %s", recorder.Body.String())
	}
}

func TestWriteError_RetryAfterOnUnavailable(t *testing.T) {
	recorder := httptest.NewRecorder()
	WriteError(recorder, httptest.NewRequest(http.MethodGet, "/", nil), apperr.Unavailable("match is busy"))

	if recorder.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After header, got %q", recorder.Header().Get("Retry-After"))
	}
}

func TestDecodeJSON_RejectsUnknownFieldsAndTrailingData(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatalf("expected unknown field error")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatalf("expected trailing data error")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Name != "a" {
		t.Fatalf("expected name a, got %q", dst.Name)
	}
}
