package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"
	"github.com/miraedance/atelier/pkg/logger"
)

// pollInterval is the snapshot refresh cadence used when change streams are
// unavailable (standalone mongod without a replica set).
const pollInterval = 2 * time.Second

// MongoStore implements Store on top of a MongoDB database with string _id keys.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	mu   sync.Mutex
	subs map[int]*mongoSub
	next int
}

type mongoSub struct {
	collection string
	filters    []Filter
	orderBy    *OrderBy
	onSnapshot SnapshotFunc
	cancel     context.CancelFunc
}

// ConnectMongo dials the database and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri, db string) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(db),
		subs:   map[int]*mongoSub{},
	}, nil
}

// Collection exposes a raw collection handle, for callers that sit outside
// the document API (the Mongo slog handler, index management).
func (s *MongoStore) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Close cancels all subscriptions and disconnects.
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	for _, sub := range s.subs {
		sub.cancel()
	}
	s.subs = map[int]*mongoSub{}
	s.mu.Unlock()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id, ok := fields["_id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
	}

	doc := bson.M{"_id": id}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("store: insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("store: get %s/%s: %w", collection, id, err)
	}
	delete(raw, "_id")
	return Document{ID: id, Fields: raw}, nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, filters []Filter, orderBy *OrderBy) ([]Document, error) {
	findOpts := options.Find()
	if orderBy != nil {
		dir := 1
		if orderBy.Desc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: orderBy.Field, Value: dir}})
	}

	cur, err := s.db.Collection(collection).Find(ctx, mongoFilter(filters), findOpts)
	if err != nil {
		return nil, fmt.Errorf("store: query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	var docs []Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("store: decode %s row: %w", collection, err)
		}
		id, _ := raw["_id"].(string)
		delete(raw, "_id")
		docs = append(docs, Document{ID: id, Fields: raw})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("store: query %s cursor: %w", collection, err)
	}
	return docs, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if len(partial) == 0 {
		return nil
	}
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": bson.M(partial)})
	if err != nil {
		return fmt.Errorf("store: update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Subscribe watches the collection with a change stream and re-queries the
// full result set on every event. When the deployment does not support
// change streams, it degrades to interval polling with change detection.
func (s *MongoStore) Subscribe(collection string, filters []Filter, orderBy *OrderBy, onSnapshot SnapshotFunc) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &mongoSub{
		collection: collection,
		filters:    filters,
		orderBy:    orderBy,
		onSnapshot: onSnapshot,
		cancel:     cancel,
	}

	s.mu.Lock()
	s.next++
	key := s.next
	s.subs[key] = sub
	s.mu.Unlock()

	go s.run(ctx, sub)

	unsubscribe := func() {
		s.mu.Lock()
		if stored, ok := s.subs[key]; ok {
			stored.cancel()
			delete(s.subs, key)
		}
		s.mu.Unlock()
	}
	return unsubscribe, nil
}

func (s *MongoStore) run(ctx context.Context, sub *mongoSub) {
	s.deliver(ctx, sub)

	stream, err := s.db.Collection(sub.collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		logger.Warn("store: change stream unavailable, falling back to polling",
			"collection", sub.collection, "error", err)
		s.poll(ctx, sub)
		return
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		s.deliver(ctx, sub)
	}
	if ctx.Err() == nil && stream.Err() != nil {
		logger.Error("store: change stream closed", "collection", sub.collection, "error", stream.Err())
	}
}

func (s *MongoStore) poll(ctx context.Context, sub *mongoSub) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deliver(ctx, sub)
		}
	}
}

func (s *MongoStore) deliver(ctx context.Context, sub *mongoSub) {
	docs, err := s.Query(ctx, sub.collection, sub.filters, sub.orderBy)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("store: snapshot query failed", "collection", sub.collection, "error", err)
		}
		return
	}
	sub.onSnapshot(docs)
}

func mongoFilter(filters []Filter) bson.M {
	q := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case "!=":
			q[f.Field] = bson.M{"$ne": f.Value}
		default:
			q[f.Field] = f.Value
		}
	}
	return q
}
