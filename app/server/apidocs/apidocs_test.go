package apidocs

import (
	"context"
	"encoding/json"
	"github.com/labstack/echo/v4"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	doc, docJSON, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	for _, p := range []string{
		"/admin/user-fields/{id}",
		"/admin/users/{id}/migrate-type",
		"/admin/users/migrate-type/batch",
	} {
		if doc.Paths.Find(p) == nil {
			t.Errorf("path %s is not documented", p)
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(docJSON, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if raw["openapi"] != "3.0.3" {
		t.Errorf("unexpected openapi version %v", raw["openapi"])
	}
}

func TestDocs(t *testing.T) {
	e := echo.New()
	docs := New("/api", []byte(`{"openapi":"3.0.3"}`), WithAuthorizer(func(r *http.Request) bool {
		return r.Header.Get("X-Allow") == "1"
	}))
	e.Pre(docs.Middleware())
	e.GET("/other", func(c echo.Context) error {
		return c.String(http.StatusOK, "other")
	})

	tests := []struct {
		name   string
		path   string
		allow  bool
		status int
		body   string
	}{
		{name: "json", path: "/api/openapi.json", allow: true, status: http.StatusOK, body: `{"openapi":"3.0.3"}`},
		{name: "yaml", path: "/api/openapi.yaml", allow: true, status: http.StatusOK, body: "openapi: 3.0.3"},
		{name: "page", path: "/api/docs", allow: true, status: http.StatusOK, body: `data-url="/api/openapi.json"`},
		{name: "redirect", path: "/api", allow: true, status: http.StatusFound},
		{name: "forbidden", path: "/api/openapi.json", allow: false, status: http.StatusForbidden},
		{name: "passthrough", path: "/other", allow: false, status: http.StatusOK, body: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.allow {
				req.Header.Set("X-Allow", "1")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.body)
			}
		})
	}
}
