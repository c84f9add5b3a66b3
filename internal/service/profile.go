package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/repository"
)

type ProfileService struct {
	Deps
}

// GetOrCreate returns the caller's profile, creating it from the identity
// provider's record on first use.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.Store.Profiles().Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	ident, err := s.Identity.Lookup(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity for user_id=%s: %w", userID, err)
	}

	return s.Store.Profiles().Create(ctx, &profile.Profile{
		UserID:       userID,
		DisplayName:  ident.Nickname,
		MainEmail:    ident.Email,
		TeeShirtSize: profile.TeeShirtNotSpecified,
	})
}

// Save applies the non-empty fields of p to the caller's profile.
func (s *ProfileService) Save(ctx context.Context, userID string, p *profile.SaveProfilePayload) (*profile.Profile, error) {
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	var saved *profile.Profile
	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		prof, err := tx.Profiles().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		p.Apply(prof)
		if err := tx.Profiles().Update(ctx, prof); err != nil {
			return err
		}
		saved = prof
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// displayNames maps user ids to profile display names. Users without a
// profile are left out.
func (s *ProfileService) displayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if _, seen := names[id]; seen {
			continue
		}
		p, err := s.Store.Profiles().Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		names[id] = p.DisplayName
	}
	return names, nil
}
