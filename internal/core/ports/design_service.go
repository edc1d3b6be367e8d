package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// AdvanceStageInput carries a designer's stage update.
type AdvanceStageInput struct {
	DesignID string
	Stage    string
	Images   []string // appended to the design's image set
}

// DesignService owns the design-commission sub-lifecycle: acceptance of a
// design pitch, stage progression and purchase.
type DesignService interface {
	// Accept turns an accepted design-feed pitch into a Design record at
	// initial_sketch/pending. Shop owner only; one design per comment, ever.
	Accept(ctx context.Context, actor Actor, commentID string) (*domain.Design, error)
	AdvanceStage(ctx context.Context, actor Actor, in AdvanceStageInput) (*domain.Design, error)
	// Purchase charges the shop for the design and marks it purchased.
	// Requires pending status at final_design stage; terminal.
	Purchase(ctx context.Context, actor Actor, designID, cardToken string) (*domain.Design, error)

	ListPending(ctx context.Context, actor Actor) ([]*domain.Design, error)
	ListPurchased(ctx context.Context, actor Actor) ([]*domain.Design, error)
	ListSold(ctx context.Context, actor Actor) ([]*domain.Design, error)
}
