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
)

const collectionComments = "comments"

// CommentRepository persists pitches and replies. The one-pitch-per-post rule
// is enforced by a partial unique index on (post_id, user_id) scoped to
// top-level comments, so concurrent submissions cannot both land.
type CommentRepository struct {
	col   *mongo.Collection
	posts *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		col:   db.Collection(collectionComments),
		posts: db.Collection(collectionPosts),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyResponded
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Comment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"post_id": postID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var comments []*domain.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// HasTopLevel reports whether a non-withdrawn top-level comment by userID
// exists on postID.
func (r *CommentRepository) HasTopLevel(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"post_id":   postID,
		"user_id":   userID,
		"parent_id": "",
		"withdrawn": false,
	})
	if err != nil {
		return false, fmt.Errorf("count top-level comments: %w", err)
	}
	return n > 0, nil
}

// HasAnyOnBookingPostsOf reports whether shopID has commented on any booking
// post created by fanID.
func (r *CommentRepository) HasAnyOnBookingPostsOf(ctx context.Context, shopID, fanID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.posts.Find(ctx,
		bson.M{"feed_type": domain.FeedBooking, "creator_id": fanID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return false, fmt.Errorf("find booking posts: %w", err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return false, fmt.Errorf("decode booking posts: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	n, err := r.col.CountDocuments(ctx, bson.M{
		"user_id": shopID,
		"post_id": bson.M{"$in": ids},
	})
	if err != nil {
		return false, fmt.Errorf("count pitches: %w", err)
	}
	return n > 0, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": c.ID},
		bson.M{"$set": bson.M{
			"content":    c.Content,
			"images":     c.Images,
			"price":      c.Price,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

// Withdraw flips the withdrawn flag, guarded on it being unset.
func (r *CommentRepository) Withdraw(ctx context.Context, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": commentID, "withdrawn": false},
		bson.M{"$set": bson.M{"withdrawn": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("withdraw comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrWithdrawn
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the comments collection.
func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			// One top-level comment per author per post.
			Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"parent_id": ""}),
		},
		{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
