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

const collectionPosts = "posts"

// PostRepository persists posts. Every lifecycle mutation is a conditional
// update filtered on the expected prior state, so a lost race surfaces as a
// guard miss and never as a silent overwrite.
type PostRepository struct {
	col      *mongo.Collection
	comments *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		col:      db.Collection(collectionPosts),
		comments: db.Collection(collectionComments),
	}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Post
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// List returns posts matching the feed filter, newest first.
func (r *PostRepository) List(ctx context.Context, filter ports.FeedFilter) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.FeedType != "" {
		q["feed_type"] = filter.FeedType
	}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.ShopID != "" {
		q["shop_id"] = filter.ShopID
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var posts []*domain.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// BindShop fills the shop slot on an open booking post and moves it to
// accepted. The filter requires the slot to be unbound; a miss means another
// pitch won the race.
func (r *PostRepository) BindShop(ctx context.Context, postID, shopID string) error {
	return r.bindSlot(ctx, postID, "shop_id", shopID)
}

// BindArtist fills the artist slot on an open design post and moves it to
// accepted.
func (r *PostRepository) BindArtist(ctx context.Context, postID, artistID string) error {
	return r.bindSlot(ctx, postID, "artist_id", artistID)
}

func (r *PostRepository) bindSlot(ctx context.Context, postID, field, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":    postID,
			"status": domain.StatusOpen,
			field:    bson.M{"$in": bson.A{"", nil}},
		},
		bson.M{"$set": bson.M{
			field:        userID,
			"status":     domain.StatusAccepted,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("bind %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPitchTaken
	}
	return nil
}

// Schedule attaches booking details and moves accepted -> scheduled.
func (r *PostRepository) Schedule(ctx context.Context, postID string, details *domain.BookingDetails) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postID, "status": domain.StatusAccepted},
		bson.M{"$set": bson.M{
			"status":     domain.StatusScheduled,
			"booking":    details,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("schedule post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlreadyScheduled
	}
	return nil
}

// SetStatus moves from -> to, failing when the post has left the from status.
func (r *PostRepository) SetStatus(ctx context.Context, postID string, from, to domain.PostStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postID, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Delete hard-deletes a post and cascades to its comments.
func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "feed_type", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "shop_id", Value: 1}}},
		{Keys: bson.D{{Key: "creator_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
