// Package identity is the authentication boundary: account creation,
// credential sign-in, and session issuance. The rest of the app talks to the
// Provider interface; the production implementation stores accounts in the
// document store.
package identity

import (
	"context"
	"errors"
)

// Errors returned by Provider implementations. Callers branch on these; the
// email-collision recovery path in the signup flow depends on ErrEmailInUse
// being distinguishable.
var (
	ErrEmailInUse      = errors.New("identity: email already in use")
	ErrWeakSecret      = errors.New("identity: secret must be at least 6 characters")
	ErrInvalidEmail    = errors.New("identity: email address is not valid")
	ErrNotFound        = errors.New("identity: no account for that email")
	ErrWrongSecret     = errors.New("identity: wrong secret")
	ErrTooManyAttempts = errors.New("identity: too many sign-in attempts, try again later")
)

// Session is an authenticated session: the account it belongs to and the
// bearer token that proves it.
type Session struct {
	AccountID string
	Role      string
	Token     string
}

// ChangeFunc receives the account id on sign-in and sign-up events, and ""
// on sign-out.
type ChangeFunc func(accountID string)

// Provider is the identity contract.
type Provider interface {
	// CreateAccount registers a new account and returns its session.
	// ErrEmailInUse when the email already has an account.
	CreateAccount(ctx context.Context, email, secret string) (Session, error)

	// SignIn authenticates existing credentials.
	SignIn(ctx context.Context, email, secret string) (Session, error)

	// SignOut invalidates the session token.
	SignOut(ctx context.Context, token string) error

	// OnIdentityChanged registers fn for auth state changes. The returned
	// function unregisters it.
	OnIdentityChanged(fn ChangeFunc) func()
}
