package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes every collection relies on. Uniqueness
// guarantees (usernames, one pitch per post, one design per pitch) live here,
// so this must run before the API starts serving.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type indexed interface {
		EnsureIndexes(ctx context.Context) error
	}

	for name, repo := range map[string]indexed{
		collectionUsers:         NewUserRepository(db),
		collectionPosts:         NewPostRepository(db),
		collectionComments:      NewCommentRepository(db),
		collectionDesigns:       NewDesignRepository(db),
		collectionMessages:      NewMessageRepository(db),
		collectionNotifications: NewNotificationRepository(db),
		collectionPayments:      NewPaymentRepository(db),
		collectionRatings:       NewRatingRepository(db),
		collectionBadges:        NewBadgeRepository(db),
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
