package ports

import (
	"context"

	"github.com/fieldserve/fieldservice-system/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetPermissions replaces the user's permission set.
	SetPermissions(ctx context.Context, userID string, perms domain.PermissionSet) error
	// UpdateTimezone stores the user's preferred IANA zone identifier.
	UpdateTimezone(ctx context.Context, userID, zone string) error
}
