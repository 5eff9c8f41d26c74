package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	ferrors "github.com/matzehuels/flowdeck/pkg/errors"
	"github.com/matzehuels/flowdeck/pkg/persist"
)

// mongoDocument is the stored shape: the document name is the primary key.
type mongoDocument struct {
	Name      string           `bson:"_id"`
	Version   int              `bson:"version"`
	Records   []persist.Record `bson:"records"`
	UpdatedAt time.Time        `bson:"updated_at"`
}

// MongoStore keeps one MongoDB document per diagram.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the primary, retrying transient
// failures. Empty database and collection names default to "flowdeck" and
// "documents".
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = "flowdeck"
	}
	if collection == "" {
		collection = "documents"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "connect to mongodb")
	}
	err = RetryWithBackoff(ctx, BackendMongo, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return Retryable(ferrors.Wrap(ferrors.ErrCodeNetwork, err, "ping mongodb"))
		}
		return nil
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *MongoStore) Save(ctx context.Context, name string, doc persist.Document) error {
	if err := checkName(name); err != nil {
		return err
	}
	rec := mongoDocument{
		Name:      name,
		Version:   doc.Version,
		Records:   doc.Records,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, opts); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (persist.Document, error) {
	if err := checkName(name); err != nil {
		return persist.Document{}, err
	}
	var rec mongoDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return persist.Document{}, notFound(name)
		}
		return persist.Document{}, fmt.Errorf("load document: %w", err)
	}
	return persist.Document{Version: rec.Version, Records: rec.Records}, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return sortedNames(names), nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
