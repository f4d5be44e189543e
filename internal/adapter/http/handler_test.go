package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status       string            `json:"status"`
	Time         string            `json:"time"`
	Dependencies map[string]string `json:"dependencies"`
}

func callHealth(t *testing.T, h *Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return rec, body
}

func TestHealth_NoDependenciesIsOK(t *testing.T) {
	at := time.Date(2025, 9, 6, 10, 0, 0, 123, time.FixedZone("WIB", 7*3600))
	rec, body := callHealth(t, &Handler{now: func() time.Time { return at }})

	if rec.Code != http.StatusOK || body.Status != "ok" {
		t.Fatalf("got %d %q, want 200 ok", rec.Code, body.Status)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		t.Fatalf("Content-Type = %q", ct)
	}
	if body.Time != "2025-09-06T03:00:00.000000123Z" {
		t.Fatalf("time = %q, want UTC RFC3339Nano", body.Time)
	}
	if len(body.Dependencies) != 0 {
		t.Fatalf("unexpected dependencies: %v", body.Dependencies)
	}
}

func TestNewHandler_UsesWallClock(t *testing.T) {
	h := NewHandler()
	if d := time.Since(h.now()); d < 0 || d > 2*time.Second {
		t.Fatalf("clock off by %v", d)
	}
}

func TestHealth_ReportsDependencies(t *testing.T) {
	h := NewHandler(
		Check{Name: "mysql", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)

	rec, body := callHealth(t, h)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if body.Status != "degraded" || body.Dependencies["mysql"] != "ok" || body.Dependencies["redis"] != "connection refused" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
