// Package store is the document-store adapter the rest of the application is
// written against. It exposes the handful of primitives the hosted database
// offers: keyed CRUD, filtered queries, and collection subscriptions that
// deliver the full current result set on every change.
//
// Two implementations exist: Mongo (production) and Memory (tests, dev
// fallback). Both share the same semantics — notably partial-merge Update
// (absent fields are left untouched, never cleared) and snapshot-style
// Subscribe with no cross-collection ordering guarantee.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names used across the application.
const (
	Products      = "products"
	Customers     = "customers"
	Orders        = "orders"
	Consultations = "consultations"
	Accounts      = "accounts"
)

// ErrNotFound is returned by Get when no document has the given id.
var ErrNotFound = errors.New("store: document not found")

// Document is one stored record: an opaque string key plus its fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is a single field predicate. Only equality is needed by this
// application; Op exists so query call sites stay readable.
type Filter struct {
	Field string
	Op    string // "==" (default) or "!="
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

// OrderBy names a sort field for Query/Subscribe result sets.
type OrderBy struct {
	Field string
	Desc  bool
}

// SnapshotFunc receives the full current result set of a subscription.
type SnapshotFunc func(docs []Document)

// Store is the document-store contract.
type Store interface {
	// Create inserts fields as a new document and returns its id. When
	// fields carries an "_id" string, that key is used (identity-provider
	// keyed customers); otherwise the store generates one.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Query returns all documents matching every filter, optionally sorted.
	Query(ctx context.Context, collection string, filters []Filter, orderBy *OrderBy) ([]Document, error)

	// Update merges partial into the stored document ($set semantics).
	// Fields absent from partial keep their stored values.
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete removes the document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Subscribe registers onSnapshot for the collection. The callback
	// receives the full, re-queried result set after every change to the
	// collection, and once immediately on registration. The returned
	// function cancels the subscription.
	Subscribe(collection string, filters []Filter, orderBy *OrderBy, onSnapshot SnapshotFunc) (func(), error)
}

// Decode maps a document's fields onto a struct with bson tags.
// The document id is written into the struct's `_id` field if it has one.
func Decode(doc Document, dest any) error {
	fields := make(map[string]any, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields["_id"] = doc.ID

	raw, err := bson.Marshal(fields)
	if err != nil {
		return fmt.Errorf("store: encode fields: %w", err)
	}
	if err := bson.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("store: decode document %s: %w", doc.ID, err)
	}
	return nil
}

// DecodeAll maps a result set onto a slice of structs.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := Decode(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Fields converts a bson-tagged struct into the map shape Create/Update
// expect. Zero-valued omitempty fields are dropped, which is what gives
// Update its never-clear-absent-fields behaviour.
func Fields(v any) (map[string]any, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode struct: %w", err)
	}
	var m map[string]any
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("store: decode struct fields: %w", err)
	}
	delete(m, "_id")
	return m, nil
}
