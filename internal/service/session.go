package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/conference-central/internal/cache"
	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/key"
	"github.com/deppfellow/conference-central/internal/lib/job"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/deppfellow/conference-central/internal/repository"
	"github.com/rs/zerolog"
)

// Sessions starting at or after this time are evening sessions.
var eveningStart = session.TimeOfDay{Hour: 19}

const workshopType = "Workshop"

type SessionService struct {
	Deps
}

func featuredSpeakerCacheKey(conferenceKey *key.Key) string {
	return "featured_speaker:" + conferenceKey.Encode()
}

func loadSpeaker(ctx context.Context, store repository.Store, k *key.Key) (*speaker.Speaker, error) {
	sp, err := store.Speakers().Get(ctx, k.ID())
	if err != nil {
		return nil, notFound(err, "Speaker not found.")
	}
	return sp, nil
}

func loadSession(ctx context.Context, store repository.Store, k *key.Key) (*session.Session, error) {
	s, err := store.Sessions().Get(ctx, k.ID())
	if err == nil && !s.Key().Equal(k) {
		err = repository.ErrNotFound
	}
	if err != nil {
		return nil, notFound(err, "Session not found.")
	}
	return s, nil
}

// Create adds a session to a conference the caller organizes, then has the
// featured speaker recomputed in the background.
func (s *SessionService) Create(ctx context.Context, userID string, p *session.CreateSessionPayload) (*session.Form, error) {
	confKey, err := decodeKey(p.WebsafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := loadConference(ctx, s.Store, confKey, false)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != userID {
		return nil, errs.NewForbiddenError("Only the owner can add sessions to the conference.", true)
	}

	speakerKey, err := decodeKey(p.WebsafeSpeakerKey, key.KindSpeaker)
	if err != nil {
		return nil, err
	}
	sp, err := loadSpeaker(ctx, s.Store, speakerKey)
	if err != nil {
		return nil, err
	}

	sess := p.ToSession(s.IDs.NextID(), conf.ID, conf.OrganizerUserID, sp.ID, sp.Speaker)
	if err := s.Store.Sessions().Create(ctx, sess); err != nil {
		return nil, err
	}

	wsck := conf.Key().Encode()
	wssk := sp.Key().Encode()
	err = s.Tasks.DispatchFeaturedSpeaker(ctx, job.FeaturedSpeakerPayload{
		WebsafeConferenceKey: wsck,
		WebsafeSpeakerKey:    wssk,
	})
	if err != nil {
		logger := zerolog.Ctx(ctx)
		logger.Warn().Err(err).Msg("failed to queue featured speaker update, running inline")
		if err := s.UpdateFeaturedSpeaker(ctx, wsck, wssk); err != nil {
			logger.Error().Err(err).Str("conference", wsck).Msg("failed to update featured speaker")
		}
	}

	return sess.ToForm(), nil
}

// UpdateFeaturedSpeaker makes the speaker the featured speaker of the
// conference when they have more than one session there and more sessions
// than the current featured speaker.
func (s *SessionService) UpdateFeaturedSpeaker(ctx context.Context, websafeConferenceKey, websafeSpeakerKey string) error {
	confKey, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return err
	}
	speakerKey, err := decodeKey(websafeSpeakerKey, key.KindSpeaker)
	if err != nil {
		return err
	}

	sessions, err := s.Store.Sessions().ListByConferenceAndSpeaker(ctx, confKey.ID(), speakerKey.ID())
	if err != nil {
		return err
	}
	if len(sessions) <= 1 {
		return nil
	}

	featured := session.FeaturedSpeaker{
		WebsafeSpeakerKey:  speakerKey.Encode(),
		Speaker:            sessions[0].SpeakerName,
		WebsafeSessionKeys: make([]string, 0, len(sessions)),
	}
	for _, sess := range sessions {
		featured.WebsafeSessionKeys = append(featured.WebsafeSessionKeys, sess.Key().Encode())
	}

	var current session.FeaturedSpeaker
	err = s.Cache.Swap(ctx, featuredSpeakerCacheKey(confKey), &current, 0, func(found bool) (any, bool) {
		if found && len(sessions) <= len(current.WebsafeSessionKeys) {
			return nil, false
		}
		return featured, true
	})
	if err != nil {
		return fmt.Errorf("failed to store featured speaker: %w", err)
	}
	return nil
}

var noFeaturedSpeaker = errs.NewNotFoundError("No featured speaker for this conference.", true, &codeNoFeaturedSpeaker)

func (s *SessionService) GetFeaturedSpeaker(ctx context.Context, websafeConferenceKey string) (*session.FeaturedSpeaker, error) {
	confKey, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}

	var featured session.FeaturedSpeaker
	err = s.Cache.Get(ctx, featuredSpeakerCacheKey(confKey), &featured)
	if errors.Is(err, cache.ErrMiss) {
		return nil, noFeaturedSpeaker
	}
	if err != nil {
		return nil, err
	}
	return &featured, nil
}

func (s *SessionService) ByConference(ctx context.Context, websafeConferenceKey string) ([]*session.Form, error) {
	confKey, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := loadConference(ctx, s.Store, confKey, false)
	if err != nil {
		return nil, err
	}

	sessions, err := s.Store.Sessions().ListByConference(ctx, conf.ID)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

func (s *SessionService) ByType(ctx context.Context, websafeConferenceKey, typeOfSession string) ([]*session.Form, error) {
	confKey, err := decodeKey(websafeConferenceKey, key.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := loadConference(ctx, s.Store, confKey, false)
	if err != nil {
		return nil, err
	}

	sessions, err := s.Store.Sessions().ListByConferenceAndType(ctx, conf.ID, typeOfSession)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

func (s *SessionService) BySpeaker(ctx context.Context, websafeSpeakerKey string) ([]*session.Form, error) {
	speakerKey, err := decodeKey(websafeSpeakerKey, key.KindSpeaker)
	if err != nil {
		return nil, err
	}
	sp, err := loadSpeaker(ctx, s.Store, speakerKey)
	if err != nil {
		return nil, err
	}

	sessions, err := s.Store.Sessions().ListBySpeaker(ctx, sp.ID)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

// BeforeSevenNonWorkshop lists sessions starting before 19:00 that are not
// workshops.
func (s *SessionService) BeforeSevenNonWorkshop(ctx context.Context) ([]*session.Form, error) {
	sessions, err := s.Store.Sessions().ListStartingBeforeExcludingType(ctx, eveningStart, workshopType)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

// ByHighlights lists sessions carrying any of the highlights.
func (s *SessionService) ByHighlights(ctx context.Context, highlights []string) ([]*session.Form, error) {
	sessions, err := s.Store.Sessions().ListByAnyHighlight(ctx, highlights)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}

// ByDuration lists sessions no longer than maxMinutes.
func (s *SessionService) ByDuration(ctx context.Context, maxMinutes int) ([]*session.Form, error) {
	sessions, err := s.Store.Sessions().ListByMaxDuration(ctx, maxMinutes)
	if err != nil {
		return nil, err
	}
	return session.ToForms(sessions), nil
}
