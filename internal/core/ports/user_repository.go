package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByRole returns every account holding the given role, e.g. all
	// designers for the new-post broadcast.
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	// FindByIDs resolves a batch of account ids, skipping missing ones.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// SetPaid flips the subscription flag after a successful charge.
	SetPaid(ctx context.Context, userID string, paid bool) error
}
