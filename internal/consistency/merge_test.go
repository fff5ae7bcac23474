package consistency_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/store"
)

func seedCustomer(t *testing.T, s store.Store, c models.Customer) {
	t.Helper()
	fields, err := store.Fields(c)
	require.NoError(t, err)
	fields["_id"] = c.ID
	_, err = s.Create(context.Background(), store.Customers, fields)
	require.NoError(t, err)
}

func listCustomers(t *testing.T, s store.Store) []models.Customer {
	t.Helper()
	docs, err := s.Query(context.Background(), store.Customers, nil, nil)
	require.NoError(t, err)
	customers, err := store.DecodeAll[models.Customer](docs)
	require.NoError(t, err)
	return customers
}

func TestResolveAndMerge_NoMatchCreatesFreshRecord(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Park Jiyeon",
		Phone: "010-9999-0000",
		Email: "jiyeon@example.com",
	}, "auth_100")
	require.NoError(t, err)

	assert.Equal(t, "auth_100", got.ID)
	assert.Equal(t, "jiyeon@example.com", got.Email)

	all := listCustomers(t, s)
	require.Len(t, all, 1)
	assert.Equal(t, "auth_100", all[0].ID)
}

func TestResolveAndMerge_AbsorbsAdminCreatedRecord(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	height := 165.0
	seedCustomer(t, s, models.Customer{
		ID:      "c_admin_1",
		Name:    "Kim Minji",
		Phone:   "010-1111-2222",
		Address: "Seoul",
		Measurements: models.Measurements{
			Height: &height,
		},
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Kim Minji",
		Phone: "01011112222", // same number, different formatting
		Email: "minji@example.com",
	}, "auth_999")
	require.NoError(t, err)

	assert.Equal(t, "auth_999", got.ID)
	assert.Equal(t, "Seoul", got.Address, "stored address must survive the merge")
	assert.Equal(t, "minji@example.com", got.Email)
	require.NotNil(t, got.Measurements.Height)
	assert.Equal(t, 165.0, *got.Measurements.Height, "measurements must carry over")

	all := listCustomers(t, s)
	require.Len(t, all, 1, "old record must be deleted after merge")
	assert.Equal(t, "auth_999", all[0].ID)

	_, err = s.Get(context.Background(), store.Customers, "c_admin_1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveAndMerge_SubmittedBlanksDoNotClobber(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	seedCustomer(t, s, models.Customer{
		ID:           "c_admin_2",
		Name:         "Lee Soyeon",
		Phone:        "010-3333-4444",
		CarNumber:    "12가 3456",
		Organization: "Star Dance Academy",
		CreatedAt:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Lee Soyeon",
		Phone: "010-3333-4444",
		Email: "soyeon@example.com",
		// CarNumber, Address, Organization left blank on the form.
	}, "auth_501")
	require.NoError(t, err)

	assert.Equal(t, "12가 3456", got.CarNumber)
	assert.Equal(t, "Star Dance Academy", got.Organization)
}

func TestResolveAndMerge_EmailIsNeverAMatchingKey(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	seedCustomer(t, s, models.Customer{
		ID:        "c_admin_3",
		Name:      "Choi Dahye",
		Phone:     "010-5555-6666",
		Email:     "shared@example.com",
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	// Same email, different name and phone: no merge.
	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Completely Different",
		Phone: "010-7777-8888",
		Email: "shared@example.com",
	}, "auth_777")
	require.NoError(t, err)

	assert.Equal(t, "auth_777", got.ID)
	assert.Len(t, listCustomers(t, s), 2)
}

func TestResolveAndMerge_TieBreakIsEarliestCreated(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	// Two admin duplicates with the same name and phone. The later one is
	// seeded first so that insertion order and createdAt order disagree.
	seedCustomer(t, s, models.Customer{
		ID:        "c_later",
		Name:      "Han Yuna",
		Phone:     "010-2222-3333",
		Address:   "Busan",
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	seedCustomer(t, s, models.Customer{
		ID:        "c_earlier",
		Name:      "Han Yuna",
		Phone:     "010-2222-3333",
		Address:   "Incheon",
		CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})

	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Han Yuna",
		Phone: "010-2222-3333",
		Email: "yuna@example.com",
	}, "auth_300")
	require.NoError(t, err)

	assert.Equal(t, "Incheon", got.Address, "earliest-created record must win the merge")

	// Exactly one delete: the other duplicate stays untouched.
	all := listCustomers(t, s)
	require.Len(t, all, 2)
	_, err = s.Get(context.Background(), store.Customers, "c_later")
	assert.NoError(t, err)
	_, err = s.Get(context.Background(), store.Customers, "c_earlier")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveAndMerge_RepeatSignupSameIdentity(t *testing.T) {
	s := store.NewMemoryStore()
	engine := consistency.NewMergeEngine(s)

	_, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Jung Harin",
		Phone: "010-1212-3434",
		Email: "first@example.com",
	}, "auth_42")
	require.NoError(t, err)

	// Matching record now carries the identity id itself; nothing to delete.
	got, err := engine.ResolveAndMerge(context.Background(), consistency.SignupProfile{
		Name:  "Jung Harin",
		Phone: "010-1212-3434",
		Email: "harin@example.com",
	}, "auth_42")
	require.NoError(t, err)

	assert.Equal(t, "auth_42", got.ID)
	assert.Equal(t, "harin@example.com", got.Email)
	assert.Len(t, listCustomers(t, s), 1)
}

func TestSignupProfile_Validate(t *testing.T) {
	cases := []struct {
		name    string
		profile consistency.SignupProfile
		wantErr error
	}{
		{"missing name", consistency.SignupProfile{Phone: "010-1", Email: "a@b.co"}, consistency.ErrNameRequired},
		{"missing phone", consistency.SignupProfile{Name: "Kim", Email: "a@b.co"}, consistency.ErrPhoneRequired},
		{"bad email", consistency.SignupProfile{Name: "Kim", Phone: "010-1", Email: "not-an-email"}, consistency.ErrInvalidEmail},
		{"ok", consistency.SignupProfile{Name: "Kim", Phone: "010-1", Email: "a@b.co"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.profile.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
