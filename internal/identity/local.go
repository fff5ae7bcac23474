package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/auth"
	"github.com/miraedance/atelier/pkg/cache"
	"github.com/miraedance/atelier/pkg/logger"
)

const (
	minSecretLen    = 6
	sessionTTL      = 24 * time.Hour
	maxAttempts     = 5
	attemptWindow   = 15 * time.Minute
	attemptKey      = "identity:attempts:"
	revokedTokenKey = "identity:revoked:"
)

// LocalProvider keeps accounts in the document store, hashes secrets with
// bcrypt, and issues JWT sessions. Sign-in attempts are throttled per email
// with Redis counters; when Redis is down the throttle fails open.
type LocalProvider struct {
	store store.Store

	mu        sync.Mutex
	listeners map[int]ChangeFunc
	nextKey   int
}

var _ Provider = (*LocalProvider)(nil)

// NewLocalProvider wires the provider to a document store.
func NewLocalProvider(s store.Store) *LocalProvider {
	return &LocalProvider{store: s, listeners: map[int]ChangeFunc{}}
}

func (p *LocalProvider) CreateAccount(ctx context.Context, email, secret string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !consistency.ValidEmail(email) {
		return Session{}, ErrInvalidEmail
	}
	if len(secret) < minSecretLen {
		return Session{}, ErrWeakSecret
	}

	if _, err := p.findByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailInUse
	} else if err != ErrNotFound {
		return Session{}, err
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return Session{}, fmt.Errorf("identity: hash secret: %w", err)
	}

	now := time.Now()
	account := models.Account{
		ID:         uuid.NewString(),
		Email:      email,
		SecretHash: hash,
		Role:       models.RoleCustomer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	fields, err := store.Fields(account)
	if err != nil {
		return Session{}, err
	}
	fields["_id"] = account.ID
	if _, err := p.store.Create(ctx, store.Accounts, fields); err != nil {
		return Session{}, fmt.Errorf("identity: create account: %w", err)
	}

	session, err := p.issue(account)
	if err != nil {
		return Session{}, err
	}

	logger.WithCtx(ctx).Info("account created", "account_id", account.ID)
	p.notify(account.ID)
	return session, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, secret string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	attempts, err := cache.Incr(attemptKey+email, attemptWindow)
	if err != nil {
		logger.WithCtx(ctx).Warn("sign-in throttle unavailable", "error", err)
	}
	if attempts > maxAttempts {
		return Session{}, ErrTooManyAttempts
	}

	account, err := p.findByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !auth.CheckSecret(account.SecretHash, secret) {
		return Session{}, ErrWrongSecret
	}

	// Successful sign-in resets the attempt window.
	_ = cache.Del(attemptKey + email)

	session, err := p.issue(account)
	if err != nil {
		return Session{}, err
	}
	p.notify(account.ID)
	return session, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil // already unusable; nothing to revoke
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := cache.Set(revokedTokenKey+token, true, ttl); err != nil {
			return fmt.Errorf("identity: revoke token: %w", err)
		}
	}
	p.notify("")
	return nil
}

func (p *LocalProvider) OnIdentityChanged(fn ChangeFunc) func() {
	p.mu.Lock()
	p.nextKey++
	key := p.nextKey
	p.listeners[key] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, key)
		p.mu.Unlock()
	}
}

// Revoked reports whether a still-valid token was invalidated by SignOut.
func Revoked(token string) bool {
	var marker bool
	return cache.Get(revokedTokenKey+token, &marker)
}

func (p *LocalProvider) findByEmail(ctx context.Context, email string) (models.Account, error) {
	docs, err := p.store.Query(ctx, store.Accounts, []store.Filter{store.Eq("email", email)}, nil)
	if err != nil {
		return models.Account{}, fmt.Errorf("identity: query accounts: %w", err)
	}
	if len(docs) == 0 {
		return models.Account{}, ErrNotFound
	}
	var account models.Account
	if err := store.Decode(docs[0], &account); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (p *LocalProvider) issue(account models.Account) (Session, error) {
	token, err := auth.GenerateToken(account.ID, account.Role, sessionTTL)
	if err != nil {
		return Session{}, fmt.Errorf("identity: sign token: %w", err)
	}
	return Session{AccountID: account.ID, Role: account.Role, Token: token}, nil
}

func (p *LocalProvider) notify(accountID string) {
	p.mu.Lock()
	fns := make([]ChangeFunc, 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(accountID)
	}
}
