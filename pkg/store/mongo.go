package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	ierrors "github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/observability"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "infinityflow"
	DefaultMongoCollection = "mindmaps"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration // per-operation timeout, 0 means 10s
}

// MongoStore keeps one BSON document per mind map.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
	owned   bool
}

// NewMongoStore connects to MongoDB and pings the primary.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, ierrors.New(ierrors.ErrCodeInvalidInput, "mongo uri is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "ping mongo")
	}
	s := NewMongoStoreFromClient(client, opts)
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close does not
// disconnect it.
func NewMongoStoreFromClient(client *mongo.Client, opts MongoOptions) *MongoStore {
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &MongoStore{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		timeout: opts.Timeout,
	}
}

func (s *MongoStore) Save(ctx context.Context, doc *Document) (err error) {
	start := time.Now()
	defer func() {
		if doc != nil {
			observability.Store().OnSave(ctx, "mongo", doc.ID, doc.NodeCount, time.Since(start), err)
		}
	}()
	if err := touch(doc, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return ierrors.Wrap(ierrors.ErrCodeStorage, err, "save document %s", doc.ID)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (doc *Document, err error) {
	start := time.Now()
	defer func() { observability.Store().OnLoad(ctx, "mongo", id, time.Since(start), err) }()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var d Document
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "load document %s", id)
	}
	return &d, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeStorage, err, "delete document %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{"title": 1, "nodeCount": 1, "updatedAt": 1}).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "list documents")
	}
	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeStorage, err, "decode documents")
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

// EnsureIndexes creates the updatedAt index used by List.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "updatedAt", Value: -1}}})
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
