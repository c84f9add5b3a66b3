package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/deppfellow/conference-central/internal/cache"
	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/lib/job"
	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/repository"
	"github.com/rs/zerolog"
)

const (
	// AnnouncementCacheKey holds the current announcement, if any.
	AnnouncementCacheKey = "RECENT_ANNOUNCEMENTS"

	announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

	// Conferences with at most this many seats left are announced.
	nearlySoldOutSeats = 5
)

type ConferenceService struct {
	Deps
	profiles *ProfileService
}

// loadConference fetches the conference k names. A key whose organizer
// does not match the stored row names nothing.
func loadConference(ctx context.Context, store repository.Store, k *key.Key, lock bool) (*conference.Conference, error) {
	get := store.Conferences().Get
	if lock {
		get = store.Conferences().GetForUpdate
	}

	c, err := get(ctx, k.ID())
	if err == nil && !c.Key().Equal(k) {
		err = repository.ErrNotFound
	}
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("No conference found with key: %s", k.Encode()))
	}
	return c, nil
}

func (s *ConferenceService) Create(ctx context.Context, userID string, p *conference.CreateConferencePayload) (*conference.Form, error) {
	prof, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := p.ToConference(s.IDs.NextID(), userID)
	if err := s.Store.Conferences().Create(ctx, c); err != nil {
		return nil, err
	}

	err = s.Tasks.DispatchConferenceCreated(ctx, job.ConferenceCreatedPayload{
		To:            prof.MainEmail,
		OrganizerName: prof.DisplayName,
		Name:          c.Name,
		Description:   c.Description,
		City:          c.City,
		StartDate:     model.FormatDate(c.StartDate),
		EndDate:       model.FormatDate(c.EndDate),
		MaxAttendees:  c.MaxAttendees,
		Topics:        c.Topics,
		WebsafeKey:    c.Key().Encode(),
	})
	if err != nil {
		// The conference exists either way; only the confirmation is lost.
		zerolog.Ctx(ctx).Error().Err(err).Int64("conference_id", c.ID).Msg("failed to queue conference confirmation email")
	}

	return c.ToForm(prof.DisplayName), nil
}

func (s *ConferenceService) Get(ctx context.Context, websafeConferenceKey string) (*conference.Form, error) {
	k, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}

	c, err := loadConference(ctx, s.Store, k, false)
	if err != nil {
		return nil, err
	}

	names, err := s.profiles.displayNames(ctx, []string{c.OrganizerUserID})
	if err != nil {
		return nil, err
	}
	return c.ToForm(names[c.OrganizerUserID]), nil
}

// Update changes a conference owned by the caller. Registrations are kept,
// so maxAttendees cannot drop below the number of registered attendees.
func (s *ConferenceService) Update(ctx context.Context, userID string, p *conference.UpdateConferencePayload) (*conference.Form, error) {
	k, err := decodeKey(p.WebsafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}

	var updated *conference.Conference
	err = s.Store.WithTx(ctx, func(tx repository.Store) error {
		c, err := loadConference(ctx, tx, k, true)
		if err != nil {
			return err
		}
		if c.OrganizerUserID != userID {
			return errs.NewForbiddenError("Only the owner can update the conference.", true)
		}

		registered := c.Registered()
		p.Apply(c)
		if !c.DatesOrdered() {
			return errs.NewBadRequestError(
				"endDate must not be before startDate.", true, &codeDatesOutOfOrder,
				[]errs.FieldError{{Field: "endDate", Error: "must not be before startDate"}}, nil,
			)
		}
		if c.SeatsAvailable < 0 {
			return errs.NewConflictError(
				fmt.Sprintf("maxAttendees cannot be lower than the %d attendees already registered.", registered),
				true, &codeSeatsBelowRegistered,
			)
		}

		if err := tx.Conferences().Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	names, err := s.profiles.displayNames(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	return updated.ToForm(names[userID]), nil
}

// Register takes a seat at the conference for the caller.
func (s *ConferenceService) Register(ctx context.Context, userID, websafeConferenceKey string) (bool, error) {
	return s.setRegistration(ctx, userID, websafeConferenceKey, true)
}

// Unregister gives the caller's seat back. It reports false when the
// caller was not registered.
func (s *ConferenceService) Unregister(ctx context.Context, userID, websafeConferenceKey string) (bool, error) {
	return s.setRegistration(ctx, userID, websafeConferenceKey, false)
}

// setRegistration updates the profile and the seat count in one
// transaction. The profile row is always locked before the conference row.
func (s *ConferenceService) setRegistration(ctx context.Context, userID, websafeConferenceKey string, register bool) (bool, error) {
	k, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return false, err
	}
	if _, err := s.profiles.GetOrCreate(ctx, userID); err != nil {
		return false, err
	}

	changed := false
	err = s.Store.WithTx(ctx, func(tx repository.Store) error {
		prof, err := tx.Profiles().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		c, err := loadConference(ctx, tx, k, true)
		if err != nil {
			return err
		}

		wsck := c.Key().Encode()
		attending := prof.IsAttending(wsck)

		if register {
			if attending {
				return errs.NewConflictError("You have already registered for this conference", true, &codeAlreadyRegistered)
			}
			if c.SeatsAvailable <= 0 {
				return errs.NewConflictError("There are no seats available.", true, &codeNoSeatsAvailable)
			}
			prof.ConferenceKeysToAttend = append(prof.ConferenceKeysToAttend, wsck)
			c.SeatsAvailable--
		} else {
			if !attending {
				return nil
			}
			prof.ConferenceKeysToAttend = slices.DeleteFunc(prof.ConferenceKeysToAttend, func(v string) bool { return v == wsck })
			c.SeatsAvailable++
		}

		if err := tx.Profiles().Update(ctx, prof); err != nil {
			return err
		}
		if err := tx.Conferences().Update(ctx, c); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// Query runs client filters. Results carry organizer display names.
func (s *ConferenceService) Query(ctx context.Context, p *conference.QueryConferencesPayload) ([]*conference.Form, error) {
	q, err := conference.FormatFilters(p.Filters)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, q)
}

// Playground runs the fixed demonstration query.
func (s *ConferenceService) Playground(ctx context.Context) ([]*conference.Form, error) {
	return s.query(ctx, conference.PlaygroundQuery())
}

func (s *ConferenceService) query(ctx context.Context, q *conference.Query) ([]*conference.Form, error) {
	confs, err := s.Store.Conferences().Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.withOrganizerNames(ctx, confs)
}

func (s *ConferenceService) withOrganizerNames(ctx context.Context, confs []*conference.Conference) ([]*conference.Form, error) {
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		ids = append(ids, c.OrganizerUserID)
	}

	names, err := s.profiles.displayNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	forms := make([]*conference.Form, 0, len(confs))
	for _, c := range confs {
		forms = append(forms, c.ToForm(names[c.OrganizerUserID]))
	}
	return forms, nil
}

// Created lists the conferences the caller organizes.
func (s *ConferenceService) Created(ctx context.Context, userID string) ([]*conference.Form, error) {
	prof, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	confs, err := s.Store.Conferences().ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, err
	}

	forms := make([]*conference.Form, 0, len(confs))
	for _, c := range confs {
		forms = append(forms, c.ToForm(prof.DisplayName))
	}
	return forms, nil
}

// Attending lists the conferences the caller is registered for.
func (s *ConferenceService) Attending(ctx context.Context, userID string) ([]*conference.Form, error) {
	prof, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(prof.ConferenceKeysToAttend))
	for _, wsck := range prof.ConferenceKeysToAttend {
		k, err := key.DecodeKind(wsck, key.KindConference)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Str("key", wsck).Msg("skipping undecodable registration")
			continue
		}
		ids = append(ids, k.ID())
	}

	confs, err := s.Store.Conferences().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.withOrganizerNames(ctx, confs)
}

// GetAnnouncement returns the cached announcement, or "" when there is
// none.
func (s *ConferenceService) GetAnnouncement(ctx context.Context) (string, error) {
	var announcement string
	err := s.Cache.Get(ctx, AnnouncementCacheKey, &announcement)
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return announcement, nil
}

// RefreshAnnouncement rebuilds the announcement from the conferences that
// are nearly sold out. With none, the cached announcement is removed.
func (s *ConferenceService) RefreshAnnouncement(ctx context.Context) (string, error) {
	confs, err := s.Store.Conferences().ListNearlySoldOut(ctx, nearlySoldOutSeats)
	if err != nil {
		return "", err
	}

	if len(confs) == 0 {
		return "", s.Cache.Delete(ctx, AnnouncementCacheKey)
	}

	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	announcement := announcementPrefix + strings.Join(names, ", ")

	if err := s.Cache.Set(ctx, AnnouncementCacheKey, announcement, 0); err != nil {
		return "", err
	}
	return announcement, nil
}
