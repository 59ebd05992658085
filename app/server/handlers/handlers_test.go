package handlers

import (
	"encoding/json"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http/httptest"
	"strings"
	"testing"
)

func testApp() *App {
	return &App{
		l:   zap.NewNop(),
		esk: []byte("0123456789abcdef0123456789abcdef"),
	}
}

func testContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// assertDetail 检查状态码，detail 非空时同时检查错误说明
func assertDetail(t *testing.T, rec *httptest.ResponseRecorder, status int, detail string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	if detail == "" {
		return
	}

	var res struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if !strings.Contains(res.Detail, detail) {
		t.Errorf("expected detail containing %q, got %q", detail, res.Detail)
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit string
		want        pagination
	}{
		{page: "0", limit: "0", want: pagination{All: true, Page: -1, Limit: -1}},
		{page: "", limit: "", want: pagination{Page: 0, Limit: 100}},
		{page: "3", limit: "20", want: pagination{Page: 2, Limit: 20}},
		{page: "-1", limit: "abc", want: pagination{Page: 0, Limit: 100}},
	}

	for _, tt := range tests {
		if got := parsePagination(tt.page, tt.limit); got != tt.want {
			t.Errorf("parsePagination(%q, %q) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
		}
	}

	p := pagination{Limit: 20}
	if got := p.MaxPage(41); got != 3 {
		t.Errorf("MaxPage(41) = %d, want 3", got)
	}
	if got := p.MaxPage(40); got != 2 {
		t.Errorf("MaxPage(40) = %d, want 2", got)
	}
	if got := p.MaxPage(0); got != 0 {
		t.Errorf("MaxPage(0) = %d, want 0", got)
	}
	if got := (pagination{All: true}).MaxPage(1000); got != 1 {
		t.Errorf("MaxPage(all) = %d, want 1", got)
	}
}

func TestCrypto(t *testing.T) {
	a := testApp()

	sealed, err := a.sealSecret("reachout_webhook_secret", []byte("hook-secret"))
	if err != nil {
		t.Fatalf("sealSecret() error: %v", err)
	}
	plaintext, err := a.openSecret("reachout_webhook_secret", sealed)
	if err != nil {
		t.Fatalf("openSecret() error: %v", err)
	}
	if string(plaintext) != "hook-secret" {
		t.Errorf("openSecret() = %q", plaintext)
	}

	if _, err := a.openSecret("smtp_password", sealed); err == nil {
		t.Error("secret sealed for another key should not open")
	}
	if _, err := a.openSecret("reachout_webhook_secret", []byte("short")); !errors.Is(err, errSecretTooShort) {
		t.Errorf("expected errSecretTooShort, got %v", err)
	}

	if a.emailHash(" Ada@Example.com ") != a.emailHash("ada@example.com") {
		t.Error("email hash should ignore case and surrounding spaces")
	}
	if a.emailHash("ada@example.com") == a.emailHash("bob@example.com") {
		t.Error("different emails should hash differently")
	}
}
