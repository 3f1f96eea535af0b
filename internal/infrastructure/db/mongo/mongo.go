package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/quillpress/blog-platform/internal/core/domain"
	"github.com/quillpress/blog-platform/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers    = "users"
	collectionPosts    = "posts"
	collectionComments = "comments"
	collectionActivity = "activity"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store groups the repositories backed by one database and implements
// ports.Transactor. Transactions need a replica set or sharded cluster.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db}
}

func (s *Store) Users() ports.UserRepository {
	return &UserRepository{col: s.db.Collection(collectionUsers)}
}

func (s *Store) Posts() ports.PostRepository {
	return &PostRepository{col: s.db.Collection(collectionPosts), users: s.db.Collection(collectionUsers)}
}

func (s *Store) Comments() ports.CommentRepository {
	return &CommentRepository{
		col:   s.db.Collection(collectionComments),
		posts: s.db.Collection(collectionPosts),
		users: s.db.Collection(collectionUsers),
	}
}

func (s *Store) Activity() ports.ActivityRepository {
	return &ActivityRepository{col: s.db.Collection(collectionActivity)}
}

// WithinTransaction runs fn in a multi-document transaction. The repositories
// handed to fn are the store's own; they join the transaction through the
// session context.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w: %w", domain.ErrStorageFault, err)
	}
	defer sess.EndSession(ctx)

	repos := ports.Repositories{Users: s.Users(), Posts: s.Posts(), Comments: s.Comments()}
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, repos)
	})
	return err
}

// Ping reports whether the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the unique username index and the lookup indexes.
// Username uniqueness is enforced here, not by the registration workflow.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.db.Collection(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}

	if _, err := s.db.Collection(collectionPosts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}

	if _, err := s.db.Collection(collectionComments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("comments index: %w", err)
	}

	if _, err := s.db.Collection(collectionActivity).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("activity index: %w", err)
	}
	return nil
}

func storageFault(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageFault, err)
}
