package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

func TestFieldsDropsZeroOmitemptyFields(t *testing.T) {
	height := 165.0
	c := models.Customer{
		ID:    "auth_1",
		Name:  "Kim Minji",
		Phone: "010-1111-2222",
		Measurements: models.Measurements{
			Height: &height,
			// every other measurement left blank
		},
	}

	fields, err := store.Fields(c)
	require.NoError(t, err)

	_, hasID := fields["_id"]
	assert.False(t, hasID, "Fields must not carry the document id")
	assert.Contains(t, fields, "height")
	assert.NotContains(t, fields, "waist", "blank measurements must be absent, not zero")
	assert.NotContains(t, fields, "email")
}

func TestDecodeRoundTripThroughStore(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	waist := 68.5
	in := models.Customer{
		ID:    "auth_2",
		Name:  "Lee Soyeon",
		Phone: "010-3333-4444",
		Email: "soyeon@example.com",
		Measurements: models.Measurements{
			Waist: &waist,
		},
		CreatedAt: time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	fields, err := store.Fields(in)
	require.NoError(t, err)
	fields["_id"] = in.ID
	_, err = s.Create(ctx, store.Customers, fields)
	require.NoError(t, err)

	doc, err := s.Get(ctx, store.Customers, "auth_2")
	require.NoError(t, err)

	var out models.Customer
	require.NoError(t, store.Decode(doc, &out))

	assert.Equal(t, "auth_2", out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Email, out.Email)
	require.NotNil(t, out.Measurements.Waist)
	assert.Equal(t, 68.5, *out.Measurements.Waist)
	assert.Nil(t, out.Measurements.Height, "absent measurement stays nil after the round trip")
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestBlankUpdateNeverClobbersMeasurements(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	height := 170.0
	chest := 92.0
	initial := models.Customer{ID: "auth_3", Name: "Choi Dahye", Phone: "010-5555-6666",
		Measurements: models.Measurements{Height: &height, Chest: &chest}}
	fields, err := store.Fields(initial)
	require.NoError(t, err)
	fields["_id"] = initial.ID
	_, err = s.Create(ctx, store.Customers, fields)
	require.NoError(t, err)

	// A later profile edit submits only a new height; the blank chest field
	// produces no key at all, so the stored value survives the $set merge.
	newHeight := 171.0
	patch, err := store.Fields(models.Measurements{Height: &newHeight})
	require.NoError(t, err)
	require.Equal(t, 1, len(patch), "blank measurements must not appear in the patch")
	patch["updatedAt"] = time.Now()
	require.NoError(t, s.Update(ctx, store.Customers, "auth_3", patch))

	doc, err := s.Get(ctx, store.Customers, "auth_3")
	require.NoError(t, err)
	var out models.Customer
	require.NoError(t, store.Decode(doc, &out))

	require.NotNil(t, out.Measurements.Height)
	assert.Equal(t, 171.0, *out.Measurements.Height)
	require.NotNil(t, out.Measurements.Chest)
	assert.Equal(t, 92.0, *out.Measurements.Chest)
}

func TestDecodeAll(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	for i, name := range []string{"Tango Dress", "Waltz Gown"} {
		fields, err := store.Fields(models.Product{Name: name, Price: float64(100 + i)})
		require.NoError(t, err)
		_, err = s.Create(ctx, store.Products, fields)
		require.NoError(t, err)
	}

	docs, err := s.Query(ctx, store.Products, nil, nil)
	require.NoError(t, err)

	products, err := store.DecodeAll[models.Product](docs)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Tango Dress", products[0].Name)
	assert.NotEmpty(t, products[0].ID)
}
