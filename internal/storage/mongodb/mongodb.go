// Package mongodb provides a MongoDB-backed implementation of storage.Store.
//
// Every resource lives in its own collection. The record identifier is the
// document _id, so the collection itself rejects duplicate identifiers. An
// extra _order field records the creation instant and drives the listing
// order.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

const orderField = "_order"

// Connect dials the server at uri and returns a handle to database.
// The returned client must be disconnected by the caller.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb.Connect: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongodb.Connect: ping: %w", err)
	}

	return client, client.Database(database), nil
}

// document is the stored shape: the record's own fields plus _order.
type document[T any] struct {
	Order  int64 `bson:"_order"`
	Record T     `bson:",inline"`
}

// Store is the MongoDB implementation of storage.Store for one resource.
type Store[T types.Entity[T]] struct {
	coll *mongo.Collection
	ids  id.Generator
	last atomic.Int64
}

// New returns a Store over the named collection, creating the _order index
// if needed.
func New[T types.Entity[T]](ctx context.Context, db *mongo.Database, collection string, ids id.Generator) (*Store[T], error) {
	coll := db.Collection(collection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: orderField, Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: create index on %s: %w", collection, err)
	}

	return &Store[T]{coll: coll, ids: ids}, nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: orderField, Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb.List: find: %w", err)
	}

	var docs []document[T]
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongodb.List: decode: %w", err)
	}

	records := make([]T, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.Record)
	}
	return records, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var (
		zero T
		doc  document[T]
	)

	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, fmt.Errorf("mongodb.Get %q: %w", id, storage.ErrNotFound)
		}
		return zero, fmt.Errorf("mongodb.Get: decode: %w", err)
	}
	return doc.Record, nil
}

func (s *Store[T]) Create(ctx context.Context, candidateID string, rec T) (T, error) {
	var zero T

	recID := candidateID
	if recID == "" {
		recID = s.ids.NewID()
	}
	rec = rec.WithID(recID)

	_, err := s.coll.InsertOne(ctx, document[T]{Order: s.nextOrder(), Record: rec})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, fmt.Errorf("mongodb.Create %q: %w", recID, storage.ErrAlreadyExists)
		}
		return zero, fmt.Errorf("mongodb.Create: insert: %w", err)
	}
	return rec, nil
}

func (s *Store[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T

	fields, err := setFields(rec.WithID(id))
	if err != nil {
		return zero, fmt.Errorf("mongodb.Update: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document[T]
	err = s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: fields}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, fmt.Errorf("mongodb.Update %q: %w", id, storage.ErrNotFound)
		}
		return zero, fmt.Errorf("mongodb.Update: decode: %w", err)
	}
	return doc.Record, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	result, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongodb.Delete: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("mongodb.Delete %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

// nextOrder returns a strictly increasing timestamp for this process.
func (s *Store[T]) nextOrder() int64 {
	for {
		now := time.Now().UnixNano()
		last := s.last.Load()
		if now <= last {
			now = last + 1
		}
		if s.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// setFields converts rec into a $set document without _id, which is immutable.
func setFields[T any](rec T) (bson.M, error) {
	raw, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	delete(fields, "_id")
	return fields, nil
}

var _ storage.Store[types.Animal] = (*Store[types.Animal])(nil)
