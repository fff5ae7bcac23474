package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

type CustomerRepository struct {
	store store.Store
}

func NewCustomerRepository(s store.Store) *CustomerRepository {
	return &CustomerRepository{store: s}
}

// All returns every customer, oldest first (admin list order).
func (r *CustomerRepository) All(ctx context.Context) ([]models.Customer, error) {
	docs, err := r.store.Query(ctx, store.Customers, nil,
		&store.OrderBy{Field: "createdAt", Desc: false})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Customer](docs)
}

func (r *CustomerRepository) Find(ctx context.Context, id string) (models.Customer, error) {
	doc, err := r.store.Get(ctx, store.Customers, id)
	if err != nil {
		return models.Customer{}, err
	}
	var c models.Customer
	err = store.Decode(doc, &c)
	return c, err
}

// CreateAdmin stores an admin-entered customer under a fresh "c_"-prefixed
// key, keeping the admin key space distinct from identity-provider ids.
func (r *CustomerRepository) CreateAdmin(ctx context.Context, c models.Customer) (string, error) {
	now := time.Now()
	c.ID = "c_" + uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now

	fields, err := store.Fields(c)
	if err != nil {
		return "", err
	}
	fields["_id"] = c.ID
	return r.store.Create(ctx, store.Customers, fields)
}

// Update applies a partial field patch. Blank measurements are absent from
// the patch, so stored values survive.
func (r *CustomerRepository) Update(ctx context.Context, id string, partial map[string]any) error {
	partial["updatedAt"] = time.Now()
	return r.store.Update(ctx, store.Customers, id, partial)
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Customers, id)
}
