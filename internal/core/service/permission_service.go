package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
	"github.com/fieldserve/fieldservice-system/internal/core/ports"
)

// PermissionCache abstracts the per-user permission-set cache (Redis).
type PermissionCache interface {
	Get(ctx context.Context, userID string) (domain.PermissionSet, bool, error)
	Set(ctx context.Context, userID string, perms domain.PermissionSet) error
	Invalidate(ctx context.Context, userID string) error
}

type permissionService struct {
	repo  ports.UserRepository
	cache PermissionCache
	log   zerolog.Logger
}

// NewPermissionService returns a PermissionService backed by the user store
// with a read-through cache in front. cache may be nil (tests, cache outage
// at startup); reads then always hit the repository.
func NewPermissionService(repo ports.UserRepository, cache PermissionCache, log zerolog.Logger) ports.PermissionService {
	return &permissionService{repo: repo, cache: cache, log: log}
}

// PermissionsFor resolves the permission set for one user. Cache errors are
// logged and treated as misses; the repository stays authoritative.
func (s *permissionService) PermissionsFor(ctx context.Context, userID string) (domain.PermissionSet, error) {
	if userID == "" {
		return nil, domain.ErrUserNotFound
	}

	if s.cache != nil {
		perms, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("permission cache read failed, falling back to store")
		} else if ok {
			return perms, nil
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	perms := user.Permissions
	if perms == nil {
		perms = domain.PermissionSet{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, perms); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("permission cache write failed")
		}
	}

	return perms, nil
}

// Grant replaces the user's permission set and invalidates the cached copy.
func (s *permissionService) Grant(ctx context.Context, userID string, perms domain.PermissionSet) error {
	if userID == "" {
		return domain.ErrUserNotFound
	}
	if perms == nil {
		perms = domain.PermissionSet{}
	}

	if err := s.repo.SetPermissions(ctx, userID, perms); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("permission cache invalidation failed")
		}
	}

	s.log.Info().Str("user_id", userID).Int("keys", len(perms)).Msg("permissions updated")
	return nil
}
