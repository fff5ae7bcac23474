package consistency_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/store"
)

func seedOrder(t *testing.T, s store.Store, o models.Order) string {
	t.Helper()
	fields, err := store.Fields(o)
	require.NoError(t, err)
	if o.ID != "" {
		fields["_id"] = o.ID
	}
	id, err := s.Create(context.Background(), store.Orders, fields)
	require.NoError(t, err)
	return id
}

func getOrder(t *testing.T, s store.Store, id string) models.Order {
	t.Helper()
	doc, err := s.Get(context.Background(), store.Orders, id)
	require.NoError(t, err)
	var o models.Order
	require.NoError(t, store.Decode(doc, &o))
	return o
}

func TestPropagateProductUpdate_RefreshesEveryReferencingOrder(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewSyncEngine(s, nil)

	a := seedOrder(t, s, models.Order{ProductID: "p1", ProductName: "Tango Dress", ProductPrice: 120})
	b := seedOrder(t, s, models.Order{ProductID: "p1", ProductName: "Tango Dress", ProductPrice: 120})
	other := seedOrder(t, s, models.Order{ProductID: "p2", ProductName: "Waltz Gown", ProductPrice: 200})

	price := 150.0
	image := "https://cdn.example.com/tango-v2.jpg"
	updated := engine.PropagateProductUpdate(context.Background(), "p1", consistency.ProductPatch{
		Name:     "Tango Dress v2",
		Price:    &price,
		ImageURL: &image,
	})
	assert.Equal(t, 2, updated)

	for _, id := range []string{a, b} {
		o := getOrder(t, s, id)
		assert.Equal(t, "Tango Dress v2", o.ProductName)
		assert.Equal(t, 150.0, o.ProductPrice)
		assert.Equal(t, image, o.ProductImageURL)
	}

	untouched := getOrder(t, s, other)
	assert.Equal(t, "Waltz Gown", untouched.ProductName)
	assert.Equal(t, 200.0, untouched.ProductPrice)
}

func TestPropagateProductUpdate_PriceOnlyEditKeepsImage(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewSyncEngine(s, nil)

	id := seedOrder(t, s, models.Order{
		ProductID:       "p1",
		ProductName:     "Latin Skirt",
		ProductPrice:    80,
		ProductImageURL: "https://cdn.example.com/latin.jpg",
	})

	price := 95.0
	engine.PropagateProductUpdate(context.Background(), "p1", consistency.ProductPatch{
		Name:  "Latin Skirt",
		Price: &price,
	})

	o := getOrder(t, s, id)
	assert.Equal(t, 95.0, o.ProductPrice)
	assert.Equal(t, "https://cdn.example.com/latin.jpg", o.ProductImageURL,
		"an edit that did not touch the image must not blank the snapshot")
}

func TestPropagateProductUpdate_Idempotent(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewSyncEngine(s, nil)

	id := seedOrder(t, s, models.Order{ProductID: "p1", ProductName: "Old", ProductPrice: 10})

	price := 20.0
	patch := consistency.ProductPatch{Name: "New", Price: &price}
	engine.PropagateProductUpdate(context.Background(), "p1", patch)
	first := getOrder(t, s, id)

	engine.PropagateProductUpdate(context.Background(), "p1", patch)
	second := getOrder(t, s, id)

	assert.Equal(t, first.ProductName, second.ProductName)
	assert.Equal(t, first.ProductPrice, second.ProductPrice)
}

func TestResolveOrdersForCustomer_FallbackChain(t *testing.T) {
	customer := models.Customer{ID: "auth_1", Name: "Kim Minji", Email: "minji@example.com"}

	orders := []models.Order{
		{ID: "o1", CustomerID: "auth_1", CustomerName: "someone else"},           // id link
		{ID: "o2", CustomerID: "stale_id", CustomerEmail: "minji@example.com"},   // email fallback
		{ID: "o3", CustomerID: "stale_id", CustomerName: "Kim Minji"},            // name fallback
		{ID: "o4", CustomerID: "stale_id", CustomerName: "minji@example.com"},    // email captured in name field
		{ID: "o5", CustomerID: "stale_id", CustomerName: "Park Jiyeon"},          // no match
		{ID: "o6", CustomerID: "other", CustomerEmail: "jiyeon@example.com"},     // no match
	}

	got := consistency.ResolveOrdersForCustomer(customer, orders, nil)

	var ids []string
	for _, o := range got {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, ids, "store order must be preserved")
}

func TestResolveOrdersForCustomer_BlankEmailNeverMatches(t *testing.T) {
	customer := models.Customer{ID: "auth_2", Name: "Lee Soyeon"} // no email on record

	orders := []models.Order{
		{ID: "o1", CustomerID: "stale", CustomerEmail: ""},   // both blank; must not match
		{ID: "o2", CustomerID: "stale", CustomerName: ""},    // blank name vs blank customer email
	}

	got := consistency.ResolveOrdersForCustomer(customer, orders, nil)
	assert.Empty(t, got)
}

func TestResolveOrdersForCustomer_LiveProductWinsOverSnapshot(t *testing.T) {
	customer := models.Customer{ID: "auth_3", Name: "Choi Dahye"}

	orders := []models.Order{
		{ID: "o1", CustomerID: "auth_3", ProductID: "p1", ProductName: "Stale Name", ProductPrice: 100},
		{ID: "o2", CustomerID: "auth_3", ProductID: "gone", ProductName: "Deleted Dress", ProductPrice: 300},
	}
	products := []models.Product{
		{ID: "p1", Name: "Fresh Name", Price: 140, ImageURL: "https://cdn.example.com/fresh.jpg"},
	}

	got := consistency.ResolveOrdersForCustomer(customer, orders, products)
	require.Len(t, got, 2)

	assert.Equal(t, "Fresh Name", got[0].ProductName)
	assert.Equal(t, 140.0, got[0].ProductPrice)
	assert.Equal(t, "https://cdn.example.com/fresh.jpg", got[0].ProductImageURL)

	// Product deleted since ordering: the snapshot is all that remains.
	assert.Equal(t, "Deleted Dress", got[1].ProductName)
	assert.Equal(t, 300.0, got[1].ProductPrice)
}

func TestResolveOrdersForCustomer_NormalizesLegacyStatus(t *testing.T) {
	customer := models.Customer{ID: "auth_4", Name: "Han Yuna"}
	orders := []models.Order{
		{ID: "o1", CustomerID: "auth_4", Status: "in_production"},
		{ID: "o2", CustomerID: "auth_4", Status: "delivered"},
	}

	got := consistency.ResolveOrdersForCustomer(customer, orders, nil)
	require.Len(t, got, 2)
	assert.Equal(t, consistency.StatusProcessing, got[0].Status)
	assert.Equal(t, consistency.StatusCompleted, got[1].Status)
}
