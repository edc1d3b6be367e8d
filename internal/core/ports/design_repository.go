package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// DesignFilter selects designs for the pending/purchased/sold listings.
type DesignFilter struct {
	Status     domain.DesignStatus
	DesignerID string // non-empty = scoped to designer
	ShopID     string // non-empty = scoped to shop
}

// DesignRepository defines persistence operations for design commissions.
type DesignRepository interface {
	// Create inserts the design. Uniqueness on comment_id is enforced by the
	// store; a duplicate-key violation is returned as domain.ErrDesignTaken.
	Create(ctx context.Context, d *domain.Design) error
	FindByID(ctx context.Context, id string) (*domain.Design, error)
	List(ctx context.Context, filter DesignFilter) ([]*domain.Design, error)

	// SetStage advances the stage and appends images, guarded on
	// status=pending; returns domain.ErrAlreadyPurchased on a guard miss.
	SetStage(ctx context.Context, designID string, stage domain.DesignStage, addImages []string) error
	// MarkPurchased flips pending -> purchased; returns
	// domain.ErrAlreadyPurchased when the design was already bought.
	MarkPurchased(ctx context.Context, designID string) error
}
