package service

import (
	"context"
	"slices"

	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/repository"
)

type WishlistService struct {
	Deps
	profiles *ProfileService
}

// Add puts a session on the caller's wishlist and returns the updated
// profile.
func (s *WishlistService) Add(ctx context.Context, userID, websafeSessionKey string) (*profile.Form, error) {
	k, err := key.Decode(websafeSessionKey)
	if err != nil {
		return nil, errs.NewBadRequestError("Invalid session key: "+websafeSessionKey, true, &codeInvalidKey, nil, nil)
	}
	if k.Kind() != key.KindSession {
		return nil, errs.NewBadRequestError("Only sessions can be added to the wishlist.", true, &codeInvalidKey, nil, nil)
	}

	sess, err := loadSession(ctx, s.Store, k)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	wssk := sess.Key().Encode()
	var updated *profile.Profile
	err = s.Store.WithTx(ctx, func(tx repository.Store) error {
		prof, err := tx.Profiles().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if prof.HasWished(wssk) {
			return errs.NewConflictError("The session is already on your wishlist.", true, &codeAlreadyOnWishlist)
		}

		prof.WishList = append(prof.WishList, wssk)
		if err := tx.Profiles().Update(ctx, prof); err != nil {
			return err
		}
		updated = prof
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.ToForm(), nil
}

// Delete takes a session off the caller's wishlist and returns the updated
// profile.
func (s *WishlistService) Delete(ctx context.Context, userID, websafeSessionKey string) (*profile.Form, error) {
	k, err := decodeKey(websafeSessionKey, key.KindSession)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	wssk := k.Encode()
	var updated *profile.Profile
	err = s.Store.WithTx(ctx, func(tx repository.Store) error {
		prof, err := tx.Profiles().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if !prof.HasWished(wssk) {
			return errs.NewNotFoundError("Session not on wishlist.", true, &codeNotOnWishlist)
		}

		prof.WishList = slices.DeleteFunc(prof.WishList, func(v string) bool { return v == wssk })
		if err := tx.Profiles().Update(ctx, prof); err != nil {
			return err
		}
		updated = prof
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.ToForm(), nil
}

// Sessions returns the sessions on the caller's wishlist. Sessions that no
// longer exist are skipped.
func (s *WishlistService) Sessions(ctx context.Context, userID string) ([]*session.Form, error) {
	sessions, err := s.wishedSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

func (s *WishlistService) wishedSessions(ctx context.Context, userID string) ([]*session.Session, error) {
	prof, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(prof.WishList))
	for _, wssk := range prof.WishList {
		if k, err := key.DecodeKind(wssk, key.KindSession); err == nil {
			ids = append(ids, k.ID())
		}
	}
	return s.Store.Sessions().GetMany(ctx, ids)
}

// NotRegistered returns the conferences of wishlisted sessions that the
// caller has not registered for.
func (s *WishlistService) NotRegistered(ctx context.Context, userID string) ([]*conference.Form, error) {
	prof, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.wishedSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for _, sess := range sessions {
		if prof.IsAttending(sess.ConferenceKey().Encode()) || slices.Contains(ids, sess.ConferenceID) {
			continue
		}
		ids = append(ids, sess.ConferenceID)
	}

	confs, err := s.Store.Conferences().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return conference.ToForms(confs), nil
}
