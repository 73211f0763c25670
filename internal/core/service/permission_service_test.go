package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

func seedUser(t *testing.T, repo *stubUserRepo, perms domain.PermissionSet) *domain.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &domain.User{
		Email:       "u@example.com",
		Role:        domain.RoleDispatcher,
		Permissions: perms,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestPermissionsFor_CachePopulatedOnMiss(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubPermissionCache()
	user := seedUser(t, repo, domain.PermissionSet{domain.PermViewJobs: true})
	svc := NewPermissionService(repo, cache, zerolog.Nop())

	perms, err := svc.PermissionsFor(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("PermissionsFor: %v", err)
	}
	if !perms.Has(domain.PermViewJobs) {
		t.Error("expected viewJobs grant")
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	// Second read is served from cache; the store must not be hit again.
	before := repo.findCalls
	if _, err := svc.PermissionsFor(context.Background(), user.ID); err != nil {
		t.Fatalf("second PermissionsFor: %v", err)
	}
	if repo.findCalls != before {
		t.Errorf("repo hit on cached read: findCalls %d -> %d", before, repo.findCalls)
	}
}

func TestPermissionsFor_CacheErrorFallsBackToStore(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubPermissionCache()
	cache.getErr = errors.New("redis down")
	user := seedUser(t, repo, domain.PermissionSet{domain.PermViewJobs: true})
	svc := NewPermissionService(repo, cache, zerolog.Nop())

	perms, err := svc.PermissionsFor(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("PermissionsFor: %v", err)
	}
	if !perms.Has(domain.PermViewJobs) {
		t.Error("expected viewJobs grant despite cache outage")
	}
}

func TestPermissionsFor_NilCache(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, nil)
	svc := NewPermissionService(repo, nil, zerolog.Nop())

	perms, err := svc.PermissionsFor(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("PermissionsFor: %v", err)
	}
	// A user without grants yields an empty set, never nil.
	if perms == nil {
		t.Fatal("expected empty permission set, got nil")
	}
	if perms.Has(domain.PermEditJobs) {
		t.Error("empty set should deny everything")
	}
}

func TestPermissionsFor_UnknownUser(t *testing.T) {
	svc := NewPermissionService(newStubUserRepo(), newStubPermissionCache(), zerolog.Nop())

	if _, err := svc.PermissionsFor(context.Background(), "nope"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.PermissionsFor(context.Background(), ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for empty id, got %v", err)
	}
}

func TestGrant_PersistsAndInvalidatesCache(t *testing.T) {
	repo := newStubUserRepo()
	cache := newStubPermissionCache()
	user := seedUser(t, repo, domain.PermissionSet{domain.PermViewJobs: true})
	svc := NewPermissionService(repo, cache, zerolog.Nop())

	// Warm the cache with the old set.
	if _, err := svc.PermissionsFor(context.Background(), user.ID); err != nil {
		t.Fatalf("warm read: %v", err)
	}

	next := domain.PermissionSet{domain.PermViewJobs: true, domain.PermEditInvoices: true}
	if err := svc.Grant(context.Background(), user.ID, next); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if cache.invalidates != 1 {
		t.Errorf("cache invalidates = %d, want 1", cache.invalidates)
	}

	perms, err := svc.PermissionsFor(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if !perms.Has(domain.PermEditInvoices) {
		t.Error("new grant not visible after invalidation")
	}
}

func TestGrant_UnknownUser(t *testing.T) {
	svc := NewPermissionService(newStubUserRepo(), nil, zerolog.Nop())

	err := svc.Grant(context.Background(), "nope", domain.PermissionSet{domain.PermViewJobs: true})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
