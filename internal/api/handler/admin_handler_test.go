package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

type stubAdminService struct {
	lastLimit int
	err       error
}

func (s *stubAdminService) Dashboard(context.Context, domain.Principal) (*ports.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.DashboardStats{Users: 3, Posts: 2, Comments: 1}, nil
}

func (s *stubAdminService) Users(context.Context, domain.Principal) ([]*domain.User, error) {
	return []*domain.User{{ID: "1", Username: "root", Role: domain.RoleAdmin}}, s.err
}

func (s *stubAdminService) Activity(_ context.Context, _ domain.Principal, limit int) ([]domain.ActivityEntry, error) {
	s.lastLimit = limit
	return []domain.ActivityEntry{{Kind: domain.ActivityPostCreated, Actor: "alice"}}, s.err
}

func TestAdminHandler_Dashboard(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/admin/dashboard", "", root)
	if err := NewAdminHandler(&stubAdminService{}).Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Users != 3 || resp.Posts != 2 || resp.Comments != 1 {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}

func TestAdminHandler_Dashboard_Denied(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/admin/dashboard", "", alice)
	err := NewAdminHandler(&stubAdminService{err: domain.ErrAccessDenied}).Dashboard(c)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestAdminHandler_Activity_Limit(t *testing.T) {
	stub := &stubAdminService{}
	h := NewAdminHandler(stub)

	c, rec := newContext(http.MethodGet, "/admin/activity?limit=5", "", root)
	if err := h.Activity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.lastLimit != 5 || rec.Code != http.StatusOK {
		t.Fatalf("expected limit 5 and 200, got %d and %d", stub.lastLimit, rec.Code)
	}

	c, rec = newContext(http.MethodGet, "/admin/activity?limit=abc", "", root)
	_ = h.Activity(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
