package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/workerpool"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	pool := workerpool.New(1, 16)
	t.Cleanup(pool.Shutdown)
	return NewCatalogService(
		repositories.NewProductRepository(st),
		consistency.NewSyncEngine(st, pool),
	), st
}

func getOrderDoc(t *testing.T, st *store.MemoryStore, id string) models.Order {
	t.Helper()
	doc, err := st.Get(context.Background(), store.Orders, id)
	require.NoError(t, err)
	var o models.Order
	require.NoError(t, store.Decode(doc, &o))
	return o
}

func TestCatalogCreate(t *testing.T) {
	svc, _ := newCatalogFixture(t)

	price := 890000.0
	image := "https://cdn.example.com/rumba.jpg"
	product, err := svc.Create(context.Background(), ProductInput{
		Name:     "Crimson Rumba Dress",
		Category: "latin",
		Price:    &price,
		ImageURL: &image,
		Sizes:    []string{"S", "M"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)
	require.Equal(t, price, product.Price)
	require.Equal(t, image, product.ImageURL)
}

func TestCatalogUpdate_RefreshesOrderSnapshots(t *testing.T) {
	svc, st := newCatalogFixture(t)
	ctx := context.Background()

	productID := seedProductDoc(t, st, models.Product{
		Name:     "Crimson Rumba Dress",
		Category: "latin",
		Price:    890000,
		ImageURL: "https://cdn.example.com/rumba.jpg",
	})
	orderID := seedOrderDoc(t, st, models.Order{
		ProductID:       productID,
		ProductName:     "Crimson Rumba Dress",
		ProductPrice:    890000,
		ProductImageURL: "https://cdn.example.com/rumba.jpg",
		Status:          "pending",
	})

	// Rename without submitting a price: the snapshot keeps its price.
	product, err := svc.Update(ctx, productID, ProductInput{
		Name:     "Scarlet Rumba Dress",
		Category: "latin",
	})
	require.NoError(t, err)
	require.Equal(t, "Scarlet Rumba Dress", product.Name)
	require.Equal(t, 890000.0, product.Price)

	require.Eventually(t, func() bool {
		return getOrderDoc(t, st, orderID).ProductName == "Scarlet Rumba Dress"
	}, 2*time.Second, 10*time.Millisecond)

	refreshed := getOrderDoc(t, st, orderID)
	require.Equal(t, 890000.0, refreshed.ProductPrice)
	require.Equal(t, "https://cdn.example.com/rumba.jpg", refreshed.ProductImageURL)
}

func TestCatalogDelete_OrdersKeepSnapshots(t *testing.T) {
	svc, st := newCatalogFixture(t)
	ctx := context.Background()

	productID := seedProductDoc(t, st, models.Product{Name: "Midnight Waltz Gown", Price: 1250000})
	orderID := seedOrderDoc(t, st, models.Order{
		ProductID:    productID,
		ProductName:  "Midnight Waltz Gown",
		ProductPrice: 1250000,
		Status:       "pending",
	})

	require.NoError(t, svc.Delete(ctx, productID))

	_, err := st.Get(ctx, store.Products, productID)
	require.ErrorIs(t, err, store.ErrNotFound)

	snapshot := getOrderDoc(t, st, orderID)
	require.Equal(t, "Midnight Waltz Gown", snapshot.ProductName)
	require.Equal(t, 1250000.0, snapshot.ProductPrice)
}
