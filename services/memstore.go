package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-process Store. Unordered queries return documents in
// insertion order. It backs STORE_DRIVER=memory and the tests.
type MemStore struct {
	mu           sync.Mutex
	collections  map[string]*memCollection
	listeners    map[int]memListener
	nextListener int
}

type memCollection struct {
	order []string
	docs  map[string]map[string]interface{}
}

type memListener struct {
	collection string
	notify     chan struct{}
}

func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]*memCollection),
		listeners:   make(map[int]memListener),
	}
}

func (s *MemStore) collection(name string) *memCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]map[string]interface{})}
		s.collections[name] = c
	}
	return c
}

func (s *MemStore) get(collection, id string) (*Document, error) {
	data, ok := s.collection(collection).docs[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return &Document{ID: id, Data: normalizeData(data)}, nil
}

func (s *MemStore) find(collection string, q Query) []Document {
	c := s.collection(collection)
	var docs []Document
	for _, id := range c.order {
		data := c.docs[id]
		matched := true
		for _, f := range q.Filters {
			if !matchFilter(data, f) {
				matched = false
				break
			}
		}
		if q.OrderBy != "" {
			if _, ok := data[q.OrderBy]; !ok {
				matched = false
			}
		}
		if matched {
			docs = append(docs, Document{ID: id, Data: normalizeData(data)})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			cmp, _ := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if q.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs
}

func (s *MemStore) set(collection, id string, data map[string]interface{}) {
	c := s.collection(collection)
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = normalizeData(data)
}

func (s *MemStore) update(collection, id string, fields map[string]interface{}) error {
	c := s.collection(collection)
	data, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range fields {
		data[k] = normalizeValue(v)
	}
	return nil
}

func (s *MemStore) delete(collection, id string) {
	c := s.collection(collection)
	if _, ok := c.docs[id]; !ok {
		return
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// notify wakes every listener on the given collections. Callers hold mu.
func (s *MemStore) notify(collections ...string) {
	for _, l := range s.listeners {
		for _, name := range collections {
			if l.collection != name {
				continue
			}
			select {
			case l.notify <- struct{}{}:
			default:
			}
			break
		}
	}
}

func (s *MemStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(collection, id)
}

func (s *MemStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(collection, q), nil
}

func (s *MemStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(collection, id, data)
	s.notify(collection)
	return nil
}

func (s *MemStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.update(collection, id, fields); err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

func (s *MemStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delete(collection, id)
	s.notify(collection)
	return nil
}

func (s *MemStore) Listen(ctx context.Context, collection string, q Query, fn func(Snapshot) error) error {
	notify := make(chan struct{}, 1)
	s.mu.Lock()
	key := s.nextListener
	s.nextListener++
	s.listeners[key] = memListener{collection: collection, notify: notify}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}()

	var prev []Document
	first := true
	for {
		s.mu.Lock()
		docs := s.find(collection, q)
		s.mu.Unlock()

		changes := diffDocuments(prev, docs)
		if first || len(changes) > 0 {
			if err := fn(Snapshot{Docs: copyDocuments(docs), Changes: changes}); err != nil {
				return err
			}
			first = false
		}
		prev = docs

		select {
		case <-ctx.Done():
			return nil
		case <-notify:
		}
	}
}

var errReadAfterWrite = errors.New("transaction reads must happen before writes")

type memWrite struct {
	op         string // "set", "update" or "delete"
	collection string
	id         string
	data       map[string]interface{}
}

type memTx struct {
	store  *MemStore
	writes []memWrite
}

func (t *memTx) Get(collection, id string) (*Document, error) {
	if len(t.writes) > 0 {
		return nil, errReadAfterWrite
	}
	return t.store.get(collection, id)
}

func (t *memTx) Find(collection string, q Query) ([]Document, error) {
	if len(t.writes) > 0 {
		return nil, errReadAfterWrite
	}
	return t.store.find(collection, q), nil
}

func (t *memTx) Set(collection, id string, data map[string]interface{}) error {
	t.writes = append(t.writes, memWrite{op: "set", collection: collection, id: id, data: normalizeData(data)})
	return nil
}

func (t *memTx) Update(collection, id string, fields map[string]interface{}) error {
	t.writes = append(t.writes, memWrite{op: "update", collection: collection, id: id, data: normalizeData(fields)})
	return nil
}

func (t *memTx) Delete(collection, id string) error {
	t.writes = append(t.writes, memWrite{op: "delete", collection: collection, id: id})
	return nil
}

// RunTransaction holds the store lock for the whole of fn, so fn must only
// use tx. Writes are validated together and applied only if fn succeeds.
func (s *MemStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	exists := make(map[string]bool)
	for _, w := range tx.writes {
		key := w.collection + "/" + w.id
		present, seen := exists[key]
		if !seen {
			_, present = s.collection(w.collection).docs[w.id]
		}
		switch w.op {
		case "set":
			exists[key] = true
		case "delete":
			exists[key] = false
		case "update":
			if !present {
				return fmt.Errorf("%s: %w", key, ErrNotFound)
			}
			exists[key] = true
		}
	}

	touched := make([]string, 0, len(tx.writes))
	for _, w := range tx.writes {
		switch w.op {
		case "set":
			s.set(w.collection, w.id, w.data)
		case "update":
			if err := s.update(w.collection, w.id, w.data); err != nil {
				return err
			}
		case "delete":
			s.delete(w.collection, w.id)
		}
		touched = append(touched, w.collection)
	}
	s.notify(touched...)
	return nil
}

func (s *MemStore) Close() error {
	return nil
}
