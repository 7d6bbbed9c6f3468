package services

import "context"

// Document is one record of a collection. Data holds plain Go values:
// string, bool, int64, float64, time.Time, []interface{} and nested
// map[string]interface{}.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter compares a field against a value. Op is one of
// "==", "<", "<=", ">", ">=".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

func (q Query) Where(field, op string, value interface{}) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

func (q Query) Order(field string, desc bool) Query {
	q.OrderBy = field
	q.Desc = desc
	return q
}

type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeModified
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Change describes one step from the previous snapshot to the next.
// Applying the changes in order to the previous document list, removing at
// OldIndex and then inserting at NewIndex, yields Snapshot.Docs.
// OldIndex is -1 for additions, NewIndex is -1 for removals.
type Change struct {
	Kind     ChangeKind
	Doc      Document
	OldIndex int
	NewIndex int
}

type Snapshot struct {
	Docs    []Document
	Changes []Change
}

// Store is the collection boundary shared by every service. Get returns
// ErrNotFound for a missing document and Update fails the same way.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error

	// Listen calls fn with the current result of q and again after every
	// change to it. It blocks until ctx is done or fn returns an error.
	Listen(ctx context.Context, collection string, q Query, fn func(Snapshot) error) error

	// RunTransaction runs fn atomically; all reads happen before writes.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	Close() error
}

type Tx interface {
	Get(collection, id string) (*Document, error)
	Find(collection string, q Query) ([]Document, error)
	Set(collection, id string, data map[string]interface{}) error
	Update(collection, id string, fields map[string]interface{}) error
	Delete(collection, id string) error
}
