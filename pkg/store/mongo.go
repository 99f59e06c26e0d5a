package store

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/report"
)

const reportsCollection = "reports"

// MongoStore persists documents in a MongoDB collection, one BSON document
// per report, keyed by the report's UUID string.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "connecting to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, errors.ErrCodeStore, "pinging MongoDB")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(reportsCollection),
	}, nil
}

// mongoDoc wraps a report with a string _id: UUIDs stored as strings stay
// readable in shell queries and index cleanly.
type mongoDoc struct {
	ID       string           `bson:"_id"`
	Document *report.Document `bson:"document"`
}

func (s *MongoStore) Save(ctx context.Context, doc *report.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": doc.ID.String()},
		mongoDoc{ID: doc.ID.String(), Document: doc},
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStore, "saving document %s", doc.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id uuid.UUID) (*report.Document, error) {
	var wrapped mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&wrapped)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeReportNotFound, "no report %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "fetching document %s", id)
	}
	return wrapped.Document, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{
			"document.title":      1,
			"document.country":    1,
			"document.created_at": 1,
		}).
		SetSort(bson.M{"document.created_at": -1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "listing documents")
	}
	defer cursor.Close(ctx)

	var summaries []Summary
	for cursor.Next(ctx) {
		var wrapped mongoDoc
		if err := cursor.Decode(&wrapped); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStore, "decoding document summary")
		}
		id, err := uuid.Parse(wrapped.ID)
		if err != nil {
			continue
		}
		summaries = append(summaries, Summary{
			ID:        id,
			Title:     wrapped.Document.Title,
			Country:   wrapped.Document.Country,
			CreatedAt: wrapped.Document.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStore, "iterating documents")
	}
	return summaries, nil
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStore, "deleting document %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeReportNotFound, "no report %s", id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
