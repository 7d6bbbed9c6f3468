package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTimeout bounds every single-document or query call. Listen and
// transactions run under the caller's context.
const mongoTimeout = 5 * time.Second

// withMongoTimeout keeps an earlier deadline of ctx.
func withMongoTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, mongoTimeout)
}

// MongoStore is the Store backed by MongoDB. Documents are keyed by a
// string _id. Listen needs a replica set for change streams.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

var mongoOps = map[string]string{
	"==": "$eq",
	"<":  "$lt",
	"<=": "$lte",
	">":  "$gt",
	">=": "$gte",
}

func mongoFilter(q Query) (bson.M, error) {
	filter := bson.M{}
	for _, f := range q.Filters {
		op, ok := mongoOps[f.Op]
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q", f.Op)
		}
		cond, _ := filter[f.Field].(bson.M)
		if cond == nil {
			cond = bson.M{}
			filter[f.Field] = cond
		}
		cond[op] = normalizeValue(f.Value)
	}
	if q.OrderBy != "" {
		cond, _ := filter[q.OrderBy].(bson.M)
		if cond == nil {
			cond = bson.M{}
			filter[q.OrderBy] = cond
		}
		cond["$exists"] = true
	}
	return filter, nil
}

func mongoFindOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	return opts
}

// fromBSON turns driver types back into plain document values.
func fromBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time()
	case primitive.A:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = fromBSON(item)
		}
		return out
	case primitive.M:
		return mongoData(val)
	case primitive.D:
		return mongoData(val.Map())
	}
	return normalizeValue(v)
}

func mongoData(m bson.M) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if k == "_id" {
			continue
		}
		out[k] = fromBSON(v)
	}
	return out
}

func mongoDocument(m bson.M) Document {
	id, _ := m["_id"].(string)
	return Document{ID: id, Data: mongoData(m)}
}

func (s *MongoStore) get(ctx context.Context, collection, id string) (*Document, error) {
	var m bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	doc := mongoDocument(m)
	return &doc, nil
}

func (s *MongoStore) find(ctx context.Context, collection string, q Query) ([]Document, error) {
	filter, err := mongoFilter(q)
	if err != nil {
		return nil, err
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter, mongoFindOptions(q))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		docs = append(docs, mongoDocument(m))
	}
	return docs, cursor.Err()
}

func (s *MongoStore) set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	doc := normalizeData(data)
	doc["_id"] = id
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": normalizeData(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	ctx, cancel := withMongoTimeout(ctx)
	defer cancel()
	return s.get(ctx, collection, id)
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	ctx, cancel := withMongoTimeout(ctx)
	defer cancel()
	return s.find(ctx, collection, q)
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	ctx, cancel := withMongoTimeout(ctx)
	defer cancel()
	return s.set(ctx, collection, id, data)
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	ctx, cancel := withMongoTimeout(ctx)
	defer cancel()
	return s.update(ctx, collection, id, fields)
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := withMongoTimeout(ctx)
	defer cancel()
	return s.delete(ctx, collection, id)
}

// Listen re-runs the query on every change-stream event of the collection
// and reports the difference to the previous result.
func (s *MongoStore) Listen(ctx context.Context, collection string, q Query, fn func(Snapshot) error) error {
	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return err
	}
	defer stream.Close(context.Background())

	prev, err := s.find(ctx, collection, q)
	if err != nil {
		return err
	}
	if err := fn(Snapshot{Docs: prev, Changes: diffDocuments(nil, prev)}); err != nil {
		return err
	}

	for stream.Next(ctx) {
		docs, err := s.find(ctx, collection, q)
		if err != nil {
			return err
		}
		changes := diffDocuments(prev, docs)
		prev = docs
		if len(changes) == 0 {
			continue
		}
		if err := fn(Snapshot{Docs: docs, Changes: changes}); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return stream.Err()
}

type mongoTx struct {
	store *MongoStore
	ctx   mongo.SessionContext
}

func (t *mongoTx) Get(collection, id string) (*Document, error) {
	return t.store.get(t.ctx, collection, id)
}

func (t *mongoTx) Find(collection string, q Query) ([]Document, error) {
	return t.store.find(t.ctx, collection, q)
}

func (t *mongoTx) Set(collection, id string, data map[string]interface{}) error {
	return t.store.set(t.ctx, collection, id, data)
}

func (t *mongoTx) Update(collection, id string, fields map[string]interface{}) error {
	return t.store.update(t.ctx, collection, id, fields)
}

func (t *mongoTx) Delete(collection, id string) error {
	return t.store.delete(t.ctx, collection, id)
}

func (s *MongoStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &mongoTx{store: s, ctx: sc})
	})
	return err
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
