package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// AuthService implements registration, login, and account preferences.
type AuthService interface {
	Register(ctx context.Context, email, password, name, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// User returns the account with the given id.
	User(ctx context.Context, id string) (*domain.User, error)
	// UpdateTimezone stores the user's preferred IANA display zone after
	// validating that it resolves.
	UpdateTimezone(ctx context.Context, userID, zone string) (*domain.User, error)
}

// PermissionService resolves and mutates per-user permission sets. Reads go
// through a cache; writes invalidate it.
type PermissionService interface {
	// PermissionsFor returns the user's permission set. A missing user is
	// an error; a user with no grants yields an empty set.
	PermissionsFor(ctx context.Context, userID string) (domain.PermissionSet, error)
	// Grant sets the user's permission set wholesale (admin operation).
	Grant(ctx context.Context, userID string, perms domain.PermissionSet) error
}
