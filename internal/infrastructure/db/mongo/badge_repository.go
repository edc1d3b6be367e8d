package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rightartist/marketplace/internal/core/domain"
)

const collectionBadges = "badges"

type BadgeRepository struct {
	col *mongo.Collection
}

func NewBadgeRepository(db *mongo.Database) *BadgeRepository {
	return &BadgeRepository{col: db.Collection(collectionBadges)}
}

// Create inserts the badge. Awarding the same badge twice hits the unique
// (user_id, name) index and is swallowed as a no-op.
func (r *BadgeRepository) Create(ctx context.Context, b *domain.Badge) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert badge: %w", err)
	}
	return nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Badge, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	var badges []*domain.Badge
	if err := cur.All(ctx, &badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	return badges, nil
}

// EnsureIndexes creates necessary indexes on the badges collection.
func (r *BadgeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
