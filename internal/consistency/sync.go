package consistency

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/logger"
	"github.com/miraedance/atelier/pkg/metrics"
	"github.com/miraedance/atelier/pkg/workerpool"
)

// ProductPatch carries the fields of a product edit that must be propagated
// into order snapshots. Name is always reapplied; image and price only when
// the edit actually carried them — absence must never overwrite an existing
// snapshot value with emptiness.
type ProductPatch struct {
	Name     string
	ImageURL *string
	Price    *float64
}

// SyncEngine keeps each order's denormalized product snapshot consistent
// with the authoritative product record, and resolves orders back to a
// customer when direct id linkage is absent or wrong.
type SyncEngine struct {
	store store.Store
	pool  *workerpool.Pool
}

// NewSyncEngine wires the engine to a document store and a worker pool for
// asynchronous propagation.
func NewSyncEngine(s store.Store, pool *workerpool.Pool) *SyncEngine {
	return &SyncEngine{store: s, pool: pool}
}

// PropagateProductUpdate pushes a just-saved product edit into every order
// referencing the product. Idempotent. Per-order failures are logged and
// counted but never abort the sweep; the caller's product save already
// succeeded and stays successful regardless.
//
// Returns the number of orders updated, for observability and tests.
func (e *SyncEngine) PropagateProductUpdate(ctx context.Context, productID string, patch ProductPatch) int {
	docs, err := e.store.Query(ctx, store.Orders, []store.Filter{store.Eq("productId", productID)}, nil)
	if err != nil {
		logger.WithCtx(ctx).Error("order snapshot propagation: listing orders failed",
			"product_id", productID, "error", err)
		metrics.PropagationFailures.Inc()
		return 0
	}

	partial := map[string]any{
		"productName": patch.Name,
		"updatedAt":   time.Now(),
	}
	if patch.ImageURL != nil {
		partial["productImageUrl"] = *patch.ImageURL
	}
	if patch.Price != nil {
		partial["productPrice"] = *patch.Price
	}

	updated := 0
	for _, doc := range docs {
		if err := e.store.Update(ctx, store.Orders, doc.ID, partial); err != nil {
			logger.WithCtx(ctx).Error("order snapshot propagation: order update failed",
				"order_id", doc.ID, "product_id", productID, "error", err)
			metrics.PropagationFailures.Inc()
			continue
		}
		updated++
	}

	metrics.PropagatedOrders.Add(float64(updated))
	return updated
}

// PropagateAsync schedules PropagateProductUpdate on the worker pool. This
// is the write path's best-effort follow-up: it is not atomic with the
// product save that triggered it, and a crash in between leaves stale order
// snapshots that self-heal at the next product edit (or are overridden by
// read-path resolution).
func (e *SyncEngine) PropagateAsync(productID string, patch ProductPatch) {
	err := e.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		e.PropagateProductUpdate(ctx, productID, patch)
	})
	if err != nil {
		logger.Error("order snapshot propagation: pool rejected job",
			"product_id", productID, "error", err)
		metrics.PropagationFailures.Inc()
	}
}

// orderMatcher is one step of the customer-matching fallback chain.
type orderMatcher func(c models.Customer, o models.Order) bool

// orderMatchers is the priority-ordered predicate list: id linkage first,
// then captured email, then captured name (which historically sometimes
// holds the email instead). Kept explicit so the fallback order stays
// auditable and testable in isolation.
var orderMatchers = []orderMatcher{
	func(c models.Customer, o models.Order) bool {
		return o.CustomerID == c.ID
	},
	func(c models.Customer, o models.Order) bool {
		return c.Email != "" && o.CustomerEmail == c.Email
	},
	func(c models.Customer, o models.Order) bool {
		return o.CustomerName != "" && (o.CustomerName == c.Name || o.CustomerName == c.Email)
	},
}

// ResolveOrdersForCustomer selects the orders belonging to a customer from
// already-fetched collections, resolving each order's display product fields
// against the live product set (live values win over the stored snapshot
// when the product still exists — the read-path consistency mechanism
// layered on top of write-path propagation).
//
// An order is included when it satisfies any one matcher; it appears once,
// in the order given by the store, with no re-ranking.
func ResolveOrdersForCustomer(c models.Customer, orders []models.Order, products []models.Product) []models.Order {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var resolved []models.Order
	for _, o := range orders {
		if !matchesCustomer(c, o) {
			continue
		}
		if live, ok := byID[o.ProductID]; ok {
			o.ProductName = live.Name
			o.ProductPrice = live.Price
			o.ProductImageURL = live.ImageURL
		}
		o.Status = CanonicalStatus(o.Status)
		resolved = append(resolved, o)
	}
	return resolved
}

func matchesCustomer(c models.Customer, o models.Order) bool {
	for _, match := range orderMatchers {
		if match(c, o) {
			return true
		}
	}
	return false
}
