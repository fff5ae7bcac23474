package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store with the same observable semantics as
// the Mongo implementation. Iteration order is insertion order, which keeps
// tests deterministic. Snapshot callbacks fire synchronously on mutation.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	subs        map[int]*memSub
	next        int
}

type memCollection struct {
	docs  map[string]map[string]any
	order []string
}

type memSub struct {
	collection string
	filters    []Filter
	orderBy    *OrderBy
	onSnapshot SnapshotFunc
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: map[string]*memCollection{},
		subs:        map[int]*memSub{},
	}
}

func (s *MemoryStore) col(name string) *memCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memCollection{docs: map[string]map[string]any{}}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Create(_ context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()

	id, ok := fields["_id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
	}

	c := s.col(collection)
	if _, exists := c.docs[id]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("store: duplicate id %s in %s", id, collection)
	}

	doc := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	c.docs[id] = doc
	c.order = append(c.order, id)

	s.mu.Unlock()
	s.notify(collection)
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: copyFields(doc)}, nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, filters []Filter, orderBy *OrderBy) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryLocked(collection, filters, orderBy), nil
}

func (s *MemoryStore) queryLocked(collection string, filters []Filter, orderBy *OrderBy) []Document {
	c, ok := s.collections[collection]
	if !ok {
		return nil
	}

	var docs []Document
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, filters) {
			docs = append(docs, Document{ID: id, Fields: copyFields(doc)})
		}
	}

	if orderBy != nil {
		sort.SliceStable(docs, func(i, j int) bool {
			less := compareValues(docs[i].Fields[orderBy.Field], docs[j].Fields[orderBy.Field])
			if orderBy.Desc {
				return !less
			}
			return less
		})
	}
	return docs
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, partial map[string]any) error {
	s.mu.Lock()

	c, ok := s.collections[collection]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	doc, ok := c.docs[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range partial {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()

	c, ok := s.collections[collection]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(c.docs, id)
	for i, stored := range c.order {
		if stored == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}

	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Subscribe(collection string, filters []Filter, orderBy *OrderBy, onSnapshot SnapshotFunc) (func(), error) {
	s.mu.Lock()
	s.next++
	key := s.next
	s.subs[key] = &memSub{
		collection: collection,
		filters:    filters,
		orderBy:    orderBy,
		onSnapshot: onSnapshot,
	}
	initial := s.queryLocked(collection, filters, orderBy)
	s.mu.Unlock()

	onSnapshot(initial)

	return func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}, nil
}

// notify delivers a fresh snapshot to every subscriber of the collection.
// Each subscription fires independently; nothing orders deliveries across
// collections.
func (s *MemoryStore) notify(collection string) {
	s.mu.RLock()
	type delivery struct {
		fn   SnapshotFunc
		docs []Document
	}
	var pending []delivery
	for _, sub := range s.subs {
		if sub.collection != collection {
			continue
		}
		pending = append(pending, delivery{
			fn:   sub.onSnapshot,
			docs: s.queryLocked(collection, sub.filters, sub.orderBy),
		})
	}
	s.mu.RUnlock()

	for _, d := range pending {
		d.fn(d.docs)
	}
}

func matches(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		equal := reflect.DeepEqual(doc[f.Field], f.Value)
		if f.Op == "!=" {
			if equal {
				return false
			}
		} else if !equal {
			return false
		}
	}
	return true
}

func copyFields(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func compareValues(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case int:
		bv, _ := b.(int)
		return av < bv
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case primitive.DateTime:
		bv, _ := b.(primitive.DateTime)
		return av < bv
	default:
		return false
	}
}
