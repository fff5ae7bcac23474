package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/identity"
	"github.com/miraedance/atelier/internal/store"
)

func newAuthFixture(t *testing.T) (*AuthService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	provider := identity.NewLocalProvider(st)
	return NewAuthService(provider, consistency.NewMergeEngine(st)), st
}

func seedWalkInCustomer(t *testing.T, st *store.MemoryStore, c models.Customer) {
	t.Helper()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	fields, err := store.Fields(c)
	require.NoError(t, err)
	fields["_id"] = c.ID
	_, err = st.Create(context.Background(), store.Customers, fields)
	require.NoError(t, err)
}

func allCustomers(t *testing.T, st *store.MemoryStore) []models.Customer {
	t.Helper()
	docs, err := st.Query(context.Background(), store.Customers, nil, nil)
	require.NoError(t, err)
	customers, err := store.DecodeAll[models.Customer](docs)
	require.NoError(t, err)
	return customers
}

func TestSignup_FreshAccount(t *testing.T) {
	svc, st := newAuthFixture(t)

	session, customer, err := svc.Signup(context.Background(), SignupInput{
		Email:  "mina@example.com",
		Secret: "hunter22",
		Name:   "Park Mina",
		Phone:  "010-2222-3333",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, session.AccountID, customer.ID)
	require.Equal(t, "mina@example.com", customer.Email)
	require.Len(t, allCustomers(t, st), 1)
}

func TestSignup_AbsorbsWalkInRecord(t *testing.T) {
	svc, st := newAuthFixture(t)

	height := 167.0
	seedWalkInCustomer(t, st, models.Customer{
		ID:           "c_walkin",
		Name:         "Park Mina",
		Phone:        "01022223333",
		Address:      "Seoul, Gangnam-gu",
		Measurements: models.Measurements{Height: &height},
	})

	session, customer, err := svc.Signup(context.Background(), SignupInput{
		Email:  "mina@example.com",
		Secret: "hunter22",
		Name:   "Park Mina",
		Phone:  "010-2222-3333",
	})
	require.NoError(t, err)
	require.Equal(t, session.AccountID, customer.ID)
	require.Equal(t, "Seoul, Gangnam-gu", customer.Address)
	require.NotNil(t, customer.Measurements.Height)
	require.Equal(t, height, *customer.Measurements.Height)

	remaining := allCustomers(t, st)
	require.Len(t, remaining, 1)
	require.Equal(t, session.AccountID, remaining[0].ID)
}

func TestSignup_RecoveryWithSameCredentials(t *testing.T) {
	svc, st := newAuthFixture(t)

	in := SignupInput{
		Email:  "mina@example.com",
		Secret: "hunter22",
		Name:   "Park Mina",
		Phone:  "010-2222-3333",
	}
	first, _, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)

	in.Address = "Busan, Haeundae-gu"
	second, customer, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, first.AccountID, second.AccountID)
	require.Equal(t, "Busan, Haeundae-gu", customer.Address)
	require.Len(t, allCustomers(t, st), 1)
}

func TestSignup_RecoveryFailureLeavesNothingBehind(t *testing.T) {
	svc, st := newAuthFixture(t)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Email:  "mina@example.com",
		Secret: "hunter22",
		Name:   "Park Mina",
		Phone:  "010-2222-3333",
	})
	require.NoError(t, err)
	before := allCustomers(t, st)

	_, _, err = svc.Signup(context.Background(), SignupInput{
		Email:  "mina@example.com",
		Secret: "wrong-secret",
		Name:   "Someone Else",
		Phone:  "010-0000-0000",
	})
	require.ErrorIs(t, err, identity.ErrEmailInUse)
	require.Equal(t, before, allCustomers(t, st))
}

func TestSignup_RejectsInvalidProfile(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Email:  "not-an-email",
		Secret: "hunter22",
		Name:   "Park Mina",
		Phone:  "010-2222-3333",
	})
	require.Error(t, err)
}
