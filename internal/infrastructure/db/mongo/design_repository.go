package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

const collectionDesigns = "designs"

// DesignRepository persists design commissions. A unique index on comment_id
// guarantees a pitch is converted into a design at most once, and stage and
// purchase mutations are guarded on the pending status.
type DesignRepository struct {
	col *mongo.Collection
}

func NewDesignRepository(db *mongo.Database) *DesignRepository {
	return &DesignRepository{col: db.Collection(collectionDesigns)}
}

func (r *DesignRepository) Create(ctx context.Context, d *domain.Design) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDesignTaken
		}
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

func (r *DesignRepository) FindByID(ctx context.Context, id string) (*domain.Design, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Design
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDesignNotFound
		}
		return nil, fmt.Errorf("find design: %w", err)
	}
	return &d, nil
}

func (r *DesignRepository) List(ctx context.Context, filter ports.DesignFilter) ([]*domain.Design, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.DesignerID != "" {
		q["designer_id"] = filter.DesignerID
	}
	if filter.ShopID != "" {
		q["shop_id"] = filter.ShopID
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	var designs []*domain.Design
	if err := cur.All(ctx, &designs); err != nil {
		return nil, fmt.Errorf("decode designs: %w", err)
	}
	return designs, nil
}

// SetStage advances the stage and appends images, guarded on status=pending.
func (r *DesignRepository) SetStage(ctx context.Context, designID string, stage domain.DesignStage, addImages []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"stage": stage, "updated_at": time.Now().UTC()},
	}
	if len(addImages) > 0 {
		update["$push"] = bson.M{"images": bson.M{"$each": addImages}}
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": designID, "status": domain.DesignPending},
		update,
	)
	if err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlreadyPurchased
	}
	return nil
}

// MarkPurchased flips pending -> purchased exactly once.
func (r *DesignRepository) MarkPurchased(ctx context.Context, designID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": designID, "status": domain.DesignPending},
		bson.M{"$set": bson.M{"status": domain.DesignPurchased, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mark purchased: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlreadyPurchased
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the designs collection.
func (r *DesignRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "comment_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "designer_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "shop_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
