package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

type stubPermissionService struct {
	sets map[string]domain.PermissionSet
	err  error
}

func (s *stubPermissionService) PermissionsFor(_ context.Context, userID string) (domain.PermissionSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	set, ok := s.sets[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return set, nil
}

func (s *stubPermissionService) Grant(_ context.Context, userID string, perms domain.PermissionSet) error {
	s.sets[userID] = perms
	return nil
}

func newGateContext(t *testing.T, userID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestRequirePermission_Authorized(t *testing.T) {
	svc := &stubPermissionService{sets: map[string]domain.PermissionSet{
		"u1": {domain.PermViewJobs: true},
	}}
	c, rec := newGateContext(t, "u1")

	called := false
	mw := RequirePermission(svc, domain.PermViewJobs)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequirePermission_AbsentKeyDenied(t *testing.T) {
	svc := &stubPermissionService{sets: map[string]domain.PermissionSet{
		"u1": {domain.PermViewJobs: true},
	}}
	c, rec := newGateContext(t, "u1")

	mw := RequirePermission(svc, domain.PermEditInvoices, WithDeniedMessage("ask an admin for billing access"))
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var resp deniedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RequiredPermission != domain.PermEditInvoices {
		t.Fatalf("expected required_permission %q, got %q", domain.PermEditInvoices, resp.RequiredPermission)
	}
	if resp.Message != "ask an admin for billing access" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestRequirePermission_ExplicitFalseDenied(t *testing.T) {
	svc := &stubPermissionService{sets: map[string]domain.PermissionSet{
		"u1": {domain.PermViewJobs: false},
	}}
	c, rec := newGateContext(t, "u1")

	mw := RequirePermission(svc, domain.PermViewJobs)
	handler := mw(func(c echo.Context) error { return nil })

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequirePermission_NoIdentity(t *testing.T) {
	svc := &stubPermissionService{sets: map[string]domain.PermissionSet{}}
	c, _ := newGateContext(t, "")

	mw := RequirePermission(svc, domain.PermViewJobs)
	err := mw(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestRequirePermission_UnknownUser(t *testing.T) {
	svc := &stubPermissionService{sets: map[string]domain.PermissionSet{}}
	c, _ := newGateContext(t, "ghost")

	mw := RequirePermission(svc, domain.PermViewJobs)
	err := mw(func(c echo.Context) error { return nil })(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
