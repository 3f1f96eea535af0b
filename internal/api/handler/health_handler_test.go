package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness_AllHealthy(t *testing.T) {
	h := NewReadinessHandler(map[string]Pinger{
		"store": pingerFunc(func(context.Context) error { return nil }),
	}, zerolog.Nop())
	c, rec := newContext(http.MethodGet, "/health/ready", "", alice)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	var logs strings.Builder
	h := NewReadinessHandler(map[string]Pinger{
		"store": pingerFunc(func(context.Context) error { return nil }),
		"redis": pingerFunc(func(context.Context) error { return errors.New("dial tcp 10.0.3.7:6379: connection refused") }),
	}, zerolog.New(&logs))
	c, rec := newContext(http.MethodGet, "/health/ready", "", alice)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["store"].Status != "ok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if body := rec.Body.String(); strings.Contains(body, "10.0.3.7") || strings.Contains(body, "connection refused") {
		t.Fatalf("failure details must not reach the response: %s", body)
	}
	if !strings.Contains(logs.String(), "connection refused") || !strings.Contains(logs.String(), `"dependency":"redis"`) {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}
