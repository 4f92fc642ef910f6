package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serve(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestHealth_Liveness(t *testing.T) {
	rec := serve(t, NewHealthHandler(nil).Liveness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_ReadinessWithoutDependencies(t *testing.T) {
	rec := serve(t, NewHealthHandler(nil).Readiness)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_ReadinessReportsFailingDependency(t *testing.T) {
	h := NewHealthHandler(map[string]Pinger{
		"mongodb": PingFunc(func(context.Context) error { return nil }),
		"redis":   PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec := serve(t, h.Readiness)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Status != "degraded" || body.Dependencies["mongodb"].Status != "ok" || body.Dependencies["redis"].Error == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
