package live

import (
	"encoding/json"
	"time"

	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/logger"
)

// Feed bridges store subscriptions into the hub: one subscription per
// watched collection, each change re-broadcast as a full snapshot frame.
type Feed struct {
	hub     *Hub
	store   store.Store
	cancels []func()
}

// frame is the wire shape pushed to dashboard clients.
type frame struct {
	Collection string           `json:"collection"`
	At         time.Time        `json:"at"`
	Documents  []map[string]any `json:"documents"`
}

// NewFeed wires a feed over the given store.
func NewFeed(hub *Hub, s store.Store) *Feed {
	return &Feed{hub: hub, store: s}
}

// Watch subscribes to a collection, newest first by createdAt.
func (f *Feed) Watch(collection string) error {
	cancel, err := f.store.Subscribe(collection, nil,
		&store.OrderBy{Field: "createdAt", Desc: true},
		func(docs []store.Document) {
			f.push(collection, docs)
		})
	if err != nil {
		return err
	}
	f.cancels = append(f.cancels, cancel)
	return nil
}

// Close tears down every subscription.
func (f *Feed) Close() {
	for _, cancel := range f.cancels {
		cancel()
	}
	f.cancels = nil
}

func (f *Feed) push(collection string, docs []store.Document) {
	out := frame{Collection: collection, At: time.Now(), Documents: make([]map[string]any, 0, len(docs))}
	for _, doc := range docs {
		fields := make(map[string]any, len(doc.Fields)+1)
		for k, v := range doc.Fields {
			fields[k] = v
		}
		fields["id"] = doc.ID
		delete(fields, "secretHash")
		out.Documents = append(out.Documents, fields)
	}

	data, err := json.Marshal(out)
	if err != nil {
		logger.Error("live: marshal snapshot", "collection", collection, "error", err)
		return
	}
	f.hub.Publish(collection, data)
}
