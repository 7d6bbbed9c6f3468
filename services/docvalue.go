package services

import (
	"reflect"
	"strings"
	"time"
)

// normalizeValue converts a value into the canonical set of document types
// so that every backend hands back the same shapes.
func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.Round(0)
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Round(0)
	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]interface{}:
		return normalizeData(val)
	}
	return v
}

func normalizeData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = normalizeValue(v)
	}
	return out
}

func copyDocuments(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{ID: d.ID, Data: normalizeData(d.Data)}
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders two values of the same kind. ok is false when the
// values cannot be compared, in which case range filters never match.
func compareValues(a, b interface{}) (cmp int, ok bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func matchFilter(data map[string]interface{}, f Filter) bool {
	v, present := data[f.Field]
	if !present {
		return false
	}
	want := normalizeValue(f.Value)
	if f.Op == "==" {
		if cmp, ok := compareValues(v, want); ok {
			return cmp == 0
		}
		return reflect.DeepEqual(v, want)
	}
	cmp, ok := compareValues(v, want)
	if !ok {
		return false
	}
	switch f.Op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// diffDocuments computes the index-addressed changes that turn prev into
// next. Removals come first in prev order, then every document of next is
// added or moved into its final position from left to right.
func diffDocuments(prev, next []Document) []Change {
	inNext := make(map[string]bool, len(next))
	for _, d := range next {
		inNext[d.ID] = true
	}

	cur := make([]Document, 0, len(prev))
	var changes []Change
	for _, d := range prev {
		if !inNext[d.ID] {
			changes = append(changes, Change{Kind: ChangeRemoved, Doc: d, OldIndex: len(cur), NewIndex: -1})
			continue
		}
		cur = append(cur, d)
	}

	for i, d := range next {
		j := -1
		for k := i; k < len(cur); k++ {
			if cur[k].ID == d.ID {
				j = k
				break
			}
		}
		switch {
		case j == -1:
			cur = insertDocument(cur, i, d)
			changes = append(changes, Change{Kind: ChangeAdded, Doc: d, OldIndex: -1, NewIndex: i})
		case j != i || !reflect.DeepEqual(cur[j].Data, d.Data):
			cur = append(cur[:j], cur[j+1:]...)
			cur = insertDocument(cur, i, d)
			changes = append(changes, Change{Kind: ChangeModified, Doc: d, OldIndex: j, NewIndex: i})
		}
	}
	return changes
}

func insertDocument(docs []Document, i int, d Document) []Document {
	docs = append(docs, Document{})
	copy(docs[i+1:], docs[i:])
	docs[i] = d
	return docs
}
