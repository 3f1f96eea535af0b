package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpress/blog-platform/internal/core/domain"
)

// ActivityRepository persists the audit trail to the activity collection.
type ActivityRepository struct {
	col *mongo.Collection
}

type mongoActivity struct {
	Kind      string    `bson:"kind"`
	Actor     string    `bson:"actor,omitempty"`
	PostID    string    `bson:"post_id,omitempty"`
	CommentID string    `bson:"comment_id,omitempty"`
	At        time.Time `bson:"at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, e *domain.ActivityEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoActivity{
		Kind:      string(e.Kind),
		Actor:     e.Actor,
		PostID:    e.PostID,
		CommentID: e.CommentID,
		At:        e.At.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return storageFault("insert activity", err)
	}
	return nil
}

func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageFault("list activity", err)
	}
	var docs []mongoActivity
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storageFault("list activity", err)
	}

	out := make([]domain.ActivityEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ActivityEntry{
			Kind:      domain.ActivityKind(d.Kind),
			Actor:     d.Actor,
			PostID:    d.PostID,
			CommentID: d.CommentID,
			At:        d.At,
		})
	}
	return out, nil
}
