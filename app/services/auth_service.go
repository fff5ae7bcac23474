// Package services holds the application logic between controllers and
// repositories: signup resolution, catalog edits with snapshot propagation,
// order lifecycle, consultations.
package services

import (
	"context"
	"errors"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/identity"
	"github.com/miraedance/atelier/pkg/event"
	"github.com/miraedance/atelier/pkg/logger"
)

// SignupInput is the full signup form: credentials plus the customer
// profile the merge engine resolves against.
type SignupInput struct {
	Email        string `json:"email"        validate:"required,email"`
	Secret       string `json:"password"     validate:"required,min=6"`
	Name         string `json:"name"         validate:"required,max=100"`
	Phone        string `json:"phone"        validate:"required,max=30"`
	CarNumber    string `json:"carNumber"    validate:"nullable,max=30"`
	Address      string `json:"address"      validate:"nullable,max=300"`
	Organization string `json:"organization" validate:"nullable,max=100"`
}

type AuthService struct {
	provider identity.Provider
	merge    *consistency.MergeEngine
}

func NewAuthService(provider identity.Provider, merge *consistency.MergeEngine) *AuthService {
	return &AuthService{provider: provider, merge: merge}
}

// Signup creates (or recovers) the identity account and resolves the
// customer record.
//
// When the email already has an account, the same credentials are tried as
// a sign-in: a returning customer re-registering goes through the identical
// merge path under their existing identity id. A failed recovery returns
// ErrEmailInUse with no data written.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (identity.Session, models.Customer, error) {
	profile := consistency.SignupProfile{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		CarNumber:    in.CarNumber,
		Address:      in.Address,
		Organization: in.Organization,
	}
	if err := profile.Validate(); err != nil {
		return identity.Session{}, models.Customer{}, err
	}

	session, err := s.provider.CreateAccount(ctx, in.Email, in.Secret)
	if errors.Is(err, identity.ErrEmailInUse) {
		session, err = s.provider.SignIn(ctx, in.Email, in.Secret)
		if err != nil {
			// Recovery failed: someone else owns the email, or wrong secret.
			return identity.Session{}, models.Customer{}, identity.ErrEmailInUse
		}
		logger.WithCtx(ctx).Info("signup recovered existing account",
			"account_id", session.AccountID)
	} else if err != nil {
		return identity.Session{}, models.Customer{}, err
	}

	customer, err := s.merge.ResolveAndMerge(ctx, profile, session.AccountID)
	if err != nil {
		return identity.Session{}, models.Customer{}, err
	}

	event.FireAsync(event.CustomerMerged, customer)
	return session, customer, nil
}

// Login authenticates existing credentials.
func (s *AuthService) Login(ctx context.Context, email, secret string) (identity.Session, error) {
	return s.provider.SignIn(ctx, email, secret)
}

// Logout invalidates the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.provider.SignOut(ctx, token)
}
