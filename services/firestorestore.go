package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore is the Store backed by Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) query(collection string, q Query) firestore.Query {
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	return updates
}

func firestoreDocument(snap *firestore.DocumentSnapshot) Document {
	return Document{ID: snap.Ref.ID, Data: normalizeData(snap.Data())}
}

func mapFirestoreError(collection, id string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return err
}

func readAll(iter *firestore.DocumentIterator) ([]Document, error) {
	defer iter.Stop()
	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, firestoreDocument(snap))
	}
	return docs, nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(collection, id, err)
	}
	doc := firestoreDocument(snap)
	return &doc, nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	return readAll(s.query(collection, q).Documents(ctx))
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields))
	return mapFirestoreError(collection, id, err)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (s *FirestoreStore) Listen(ctx context.Context, collection string, q Query, fn func(Snapshot) error) error {
	it := s.query(collection, q).Snapshots(ctx)
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		docs, err := readAll(snap.Documents)
		if err != nil {
			return err
		}
		changes := make([]Change, 0, len(snap.Changes))
		for _, ch := range snap.Changes {
			kind := ChangeModified
			switch ch.Kind {
			case firestore.DocumentAdded:
				kind = ChangeAdded
			case firestore.DocumentRemoved:
				kind = ChangeRemoved
			}
			changes = append(changes, Change{
				Kind:     kind,
				Doc:      firestoreDocument(ch.Doc),
				OldIndex: ch.OldIndex,
				NewIndex: ch.NewIndex,
			})
		}
		if err := fn(Snapshot{Docs: docs, Changes: changes}); err != nil {
			return err
		}
	}
}

type firestoreTx struct {
	client *firestore.Client
	store  *FirestoreStore
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(collection, id string) (*Document, error) {
	snap, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if err != nil {
		return nil, mapFirestoreError(collection, id, err)
	}
	doc := firestoreDocument(snap)
	return &doc, nil
}

func (t *firestoreTx) Find(collection string, q Query) ([]Document, error) {
	return readAll(t.tx.Documents(t.store.query(collection, q)))
}

func (t *firestoreTx) Set(collection, id string, data map[string]interface{}) error {
	return t.tx.Set(t.client.Collection(collection).Doc(id), data)
}

func (t *firestoreTx) Update(collection, id string, fields map[string]interface{}) error {
	return t.tx.Update(t.client.Collection(collection).Doc(id), toUpdates(fields))
}

func (t *firestoreTx) Delete(collection, id string) error {
	return t.tx.Delete(t.client.Collection(collection).Doc(id))
}

func (s *FirestoreStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: s.client, store: s, tx: tx})
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("transaction: %w", ErrNotFound)
	}
	return err
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
