package consistency

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/logger"
	"github.com/miraedance/atelier/pkg/metrics"
)

// Validation errors for the signup profile. Checked before any write.
var (
	ErrNameRequired  = errors.New("consistency: name is required")
	ErrPhoneRequired = errors.New("consistency: phone is required")
	ErrInvalidEmail  = errors.New("consistency: email address is not valid")
)

// SignupProfile carries the fields collected by the signup form.
type SignupProfile struct {
	Name         string
	Phone        string
	Email        string
	CarNumber    string
	Address      string
	Organization string
}

// Validate checks the profile's input constraints. Name and phone are
// required after trimming; email must be syntactically valid.
func (p *SignupProfile) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)

	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Phone == "" {
		return ErrPhoneRequired
	}
	if !ValidEmail(p.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// MergeEngine decides, at signup time, whether a newly-authenticating
// identity corresponds to a pre-existing customer record (created earlier by
// an admin, or under a different identity-provider account) and merges
// rather than duplicates.
type MergeEngine struct {
	store store.Store
}

// NewMergeEngine wires the engine to a document store.
func NewMergeEngine(s store.Store) *MergeEngine {
	return &MergeEngine{store: s}
}

// ResolveAndMerge finds or creates the canonical customer record for the
// identity that just signed up.
//
// A stored customer matches when its name is exactly equal (case-sensitive)
// to the submitted name AND its digits-normalized phone equals the submitted
// one. When several match, the earliest-created record wins (id as the final
// tie-break) so the outcome never depends on store iteration order.
//
// On a match, one record survives: keyed by identityID, carrying every field
// of the match — body measurements included — with email, car number,
// address, and organization overwritten by non-blank submitted values. The
// old record is then deleted. At most one delete and one create happen per
// invocation, and the record about to be kept is never deleted. Email is
// informational only; it is never a matching key.
func (e *MergeEngine) ResolveAndMerge(ctx context.Context, profile SignupProfile, identityID string) (models.Customer, error) {
	if err := profile.Validate(); err != nil {
		return models.Customer{}, err
	}
	if identityID == "" {
		return models.Customer{}, fmt.Errorf("consistency: identity id is required")
	}

	docs, err := e.store.Query(ctx, store.Customers, nil, nil)
	if err != nil {
		return models.Customer{}, fmt.Errorf("consistency: list customers: %w", err)
	}
	customers, err := store.DecodeAll[models.Customer](docs)
	if err != nil {
		return models.Customer{}, err
	}

	match, found := selectMatch(customers, profile)
	now := time.Now()

	if !found {
		fresh := models.Customer{
			ID:           identityID,
			Name:         profile.Name,
			Phone:        profile.Phone,
			Email:        profile.Email,
			CarNumber:    profile.CarNumber,
			Address:      profile.Address,
			Organization: profile.Organization,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := e.write(ctx, fresh); err != nil {
			return models.Customer{}, err
		}
		metrics.SignupResolutions.WithLabelValues("created").Inc()
		return fresh, nil
	}

	merged := match
	merged.ID = identityID
	merged.Email = firstNonBlank(profile.Email, match.Email)
	merged.CarNumber = firstNonBlank(profile.CarNumber, match.CarNumber)
	merged.Address = firstNonBlank(profile.Address, match.Address)
	merged.Organization = firstNonBlank(profile.Organization, match.Organization)
	merged.UpdatedAt = now

	if err := e.write(ctx, merged); err != nil {
		return models.Customer{}, err
	}

	// Delete the stale record only when its key differs from the one we
	// just wrote; never delete the record being kept.
	if match.ID != identityID {
		if err := e.store.Delete(ctx, store.Customers, match.ID); err != nil {
			return models.Customer{}, fmt.Errorf("consistency: delete merged customer %s: %w", match.ID, err)
		}
	}

	logger.WithCtx(ctx).Info("customer records merged on signup",
		"kept", identityID, "absorbed", match.ID)
	metrics.SignupResolutions.WithLabelValues("merged").Inc()
	return merged, nil
}

// selectMatch returns the matching customer with the earliest createdAt,
// breaking remaining ties by smallest id.
func selectMatch(customers []models.Customer, profile SignupProfile) (models.Customer, bool) {
	wantPhone := NormalizePhone(profile.Phone)

	var candidates []models.Customer
	for _, c := range customers {
		if c.Name == profile.Name && NormalizePhone(c.Phone) == wantPhone {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return models.Customer{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}

// write upserts the customer under its id: create when absent, full-field
// update when a record under that key already exists (repeat signup with the
// same identity).
func (e *MergeEngine) write(ctx context.Context, c models.Customer) error {
	fields, err := store.Fields(c)
	if err != nil {
		return err
	}

	if _, getErr := e.store.Get(ctx, store.Customers, c.ID); getErr == nil {
		if err := e.store.Update(ctx, store.Customers, c.ID, fields); err != nil {
			return fmt.Errorf("consistency: update customer %s: %w", c.ID, err)
		}
		return nil
	}

	fields["_id"] = c.ID
	if _, err := e.store.Create(ctx, store.Customers, fields); err != nil {
		return fmt.Errorf("consistency: create customer %s: %w", c.ID, err)
	}
	return nil
}
