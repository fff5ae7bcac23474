package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/internal/store"
)

func newOrderFixture(t *testing.T) (*OrderService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewOrderService(
		repositories.NewOrderRepository(st),
		repositories.NewProductRepository(st),
		repositories.NewCustomerRepository(st),
	), st
}

func seedProductDoc(t *testing.T, st *store.MemoryStore, p models.Product) string {
	t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	fields, err := store.Fields(p)
	require.NoError(t, err)
	if p.ID != "" {
		fields["_id"] = p.ID
	}
	id, err := st.Create(context.Background(), store.Products, fields)
	require.NoError(t, err)
	return id
}

func seedOrderDoc(t *testing.T, st *store.MemoryStore, o models.Order) string {
	t.Helper()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	fields, err := store.Fields(o)
	require.NoError(t, err)
	id, err := st.Create(context.Background(), store.Orders, fields)
	require.NoError(t, err)
	return id
}

func TestOrderCreate_SnapshotsProductAndCustomer(t *testing.T) {
	svc, st := newOrderFixture(t)
	ctx := context.Background()

	productID := seedProductDoc(t, st, models.Product{
		Name:     "Crimson Rumba Dress",
		Price:    890000,
		ImageURL: "https://cdn.example.com/rumba.jpg",
	})
	seedWalkInCustomer(t, st, models.Customer{
		ID:      "acct-1",
		Name:    "Park Mina",
		Phone:   "010-2222-3333",
		Email:   "mina@example.com",
		Address: "Seoul, Gangnam-gu",
	})

	order, err := svc.Create(ctx, "acct-1", OrderInput{ProductID: productID, SelectedSize: "M"})
	require.NoError(t, err)

	require.Equal(t, "Crimson Rumba Dress", order.ProductName)
	require.Equal(t, 890000.0, order.ProductPrice)
	require.Equal(t, "https://cdn.example.com/rumba.jpg", order.ProductImageURL)
	require.Equal(t, "Park Mina", order.CustomerName)
	require.Equal(t, "mina@example.com", order.CustomerEmail)
	require.Equal(t, "Seoul, Gangnam-gu", order.DeliveryAddress)
	require.Equal(t, "010-2222-3333", order.PhoneNumber)
	require.Equal(t, 1, order.Quantity)
	require.Equal(t, "pending", order.Status)
}

func TestOrderCreate_WorksWithoutCustomerRecord(t *testing.T) {
	svc, st := newOrderFixture(t)

	productID := seedProductDoc(t, st, models.Product{Name: "Practice Wrap Skirt", Price: 145000})

	order, err := svc.Create(context.Background(), "fresh-account", OrderInput{ProductID: productID})
	require.NoError(t, err)
	require.Equal(t, "fresh-account", order.CustomerID)
	require.Empty(t, order.CustomerName)
}

func TestOrderCreate_UnknownProduct(t *testing.T) {
	svc, _ := newOrderFixture(t)

	_, err := svc.Create(context.Background(), "acct-1", OrderInput{ProductID: "missing"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrderTransition(t *testing.T) {
	svc, st := newOrderFixture(t)
	ctx := context.Background()

	t.Run("forward move", func(t *testing.T) {
		id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "pending"})
		order, err := svc.Transition(ctx, id, "shipped")
		require.NoError(t, err)
		require.Equal(t, "shipped", order.Status)
	})

	t.Run("backward move rejected", func(t *testing.T) {
		id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "confirmed"})
		_, err := svc.Transition(ctx, id, "pending")
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("terminal stays terminal", func(t *testing.T) {
		id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "cancelled"})
		_, err := svc.Transition(ctx, id, "processing")
		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("unknown label", func(t *testing.T) {
		id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "pending"})
		_, err := svc.Transition(ctx, id, "misplaced")
		require.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("legacy stored status transitions by its canonical meaning", func(t *testing.T) {
		id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "in_production"})
		order, err := svc.Transition(ctx, id, "shipped")
		require.NoError(t, err)
		require.Equal(t, "shipped", order.Status)
	})
}

func TestOrderSetStatus_BypassesProgression(t *testing.T) {
	svc, st := newOrderFixture(t)
	ctx := context.Background()

	id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "completed"})
	order, err := svc.SetStatus(ctx, id, "pending")
	require.NoError(t, err)
	require.Equal(t, "pending", order.Status)

	_, err = svc.SetStatus(ctx, id, "misplaced")
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestOrderGet_NormalizesLegacyStatus(t *testing.T) {
	svc, st := newOrderFixture(t)

	id := seedOrderDoc(t, st, models.Order{ProductID: "p1", Status: "delivered"})
	order, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "completed", order.Status)
}

func TestOrderForCustomer_FallbackChain(t *testing.T) {
	svc, st := newOrderFixture(t)
	ctx := context.Background()

	seedWalkInCustomer(t, st, models.Customer{
		ID:    "acct-1",
		Name:  "Park Mina",
		Phone: "010-2222-3333",
		Email: "mina@example.com",
	})

	seedOrderDoc(t, st, models.Order{CustomerID: "acct-1", ProductID: "p1", Status: "pending"})
	seedOrderDoc(t, st, models.Order{CustomerID: "c_old", CustomerEmail: "mina@example.com", ProductID: "p1", Status: "pending"})
	seedOrderDoc(t, st, models.Order{CustomerID: "c_older", CustomerName: "Park Mina", ProductID: "p1", Status: "pending"})
	seedOrderDoc(t, st, models.Order{CustomerID: "c_other", CustomerName: "Lee Haeun", ProductID: "p1", Status: "pending"})

	orders, err := svc.ForCustomer(ctx, "acct-1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
}

func TestOrderForCustomer_NoRecordYet(t *testing.T) {
	svc, _ := newOrderFixture(t)

	orders, err := svc.ForCustomer(context.Background(), "brand-new-account")
	require.NoError(t, err)
	require.Empty(t, orders)
}
