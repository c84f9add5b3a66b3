package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/conference-central/internal/cache"
	"github.com/deppfellow/conference-central/internal/errs"
	"github.com/deppfellow/conference-central/internal/lib/job"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/deppfellow/conference-central/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory repository.Store. Reads return copies so a
// failed transaction never leaks partial changes.
type memStore struct {
	mu          sync.Mutex
	profiles    map[string]profile.Profile
	conferences map[int64]conference.Conference
	sessions    map[int64]session.Session
	speakers    map[int64]speaker.Speaker
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    map[string]profile.Profile{},
		conferences: map[int64]conference.Conference{},
		sessions:    map[int64]session.Session{},
		speakers:    map[int64]speaker.Speaker{},
	}
}

func (m *memStore) Profiles() repository.ProfileStore       { return memProfiles{m} }
func (m *memStore) Conferences() repository.ConferenceStore { return memConferences{m} }
func (m *memStore) Sessions() repository.SessionStore       { return memSessions{m} }
func (m *memStore) Speakers() repository.SpeakerStore       { return memSpeakers{m} }

func (m *memStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

type memProfiles struct{ m *memStore }

func copyProfile(p profile.Profile) *profile.Profile {
	p.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	p.WishList = slices.Clone(p.WishList)
	return &p
}

func (s memProfiles) Get(_ context.Context, userID string) (*profile.Profile, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	p, ok := s.m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProfile(p), nil
}

func (s memProfiles) GetForUpdate(ctx context.Context, userID string) (*profile.Profile, error) {
	return s.Get(ctx, userID)
}

func (s memProfiles) Create(_ context.Context, p *profile.Profile) (*profile.Profile, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if existing, ok := s.m.profiles[p.UserID]; ok {
		return copyProfile(existing), nil
	}
	s.m.profiles[p.UserID] = *copyProfile(*p)
	return copyProfile(*p), nil
}

func (s memProfiles) Update(_ context.Context, p *profile.Profile) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	s.m.profiles[p.UserID] = *copyProfile(*p)
	return nil
}

type memConferences struct{ m *memStore }

func copyConference(c conference.Conference) *conference.Conference {
	c.Topics = slices.Clone(c.Topics)
	return &c
}

func (s memConferences) Create(_ context.Context, c *conference.Conference) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.m.conferences[c.ID] = *copyConference(*c)
	return nil
}

func (s memConferences) Get(_ context.Context, id int64) (*conference.Conference, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	c, ok := s.m.conferences[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyConference(c), nil
}

func (s memConferences) GetForUpdate(ctx context.Context, id int64) (*conference.Conference, error) {
	return s.Get(ctx, id)
}

func (s memConferences) filter(keep func(*conference.Conference) bool) []*conference.Conference {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []*conference.Conference{}
	for _, c := range s.m.conferences {
		if keep(&c) {
			out = append(out, copyConference(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s memConferences) GetMany(_ context.Context, ids []int64) ([]*conference.Conference, error) {
	return s.filter(func(c *conference.Conference) bool { return slices.Contains(ids, c.ID) }), nil
}

func (s memConferences) Update(_ context.Context, c *conference.Conference) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.conferences[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if c.SeatsAvailable < 0 || c.SeatsAvailable > c.MaxAttendees {
		return errors.New("conferences_seats_check violated")
	}
	s.m.conferences[c.ID] = *copyConference(*c)
	return nil
}

func (s memConferences) ListByOrganizer(_ context.Context, userID string) ([]*conference.Conference, error) {
	return s.filter(func(c *conference.Conference) bool { return c.OrganizerUserID == userID }), nil
}

func (s memConferences) Query(_ context.Context, q *conference.Query) ([]*conference.Conference, error) {
	return s.filter(q.Matches), nil
}

func (s memConferences) ListNearlySoldOut(_ context.Context, maxSeats int) ([]*conference.Conference, error) {
	return s.filter(func(c *conference.Conference) bool {
		return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats
	}), nil
}

type memSessions struct{ m *memStore }

func copySession(s session.Session) *session.Session {
	s.Highlights = slices.Clone(s.Highlights)
	s.TypeOfSession = slices.Clone(s.TypeOfSession)
	return &s
}

func (s memSessions) Create(_ context.Context, sess *session.Session) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess.CreatedAt = time.Now()
	s.m.sessions[sess.ID] = *copySession(*sess)
	return nil
}

func (s memSessions) Get(_ context.Context, id int64) (*session.Session, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sess, ok := s.m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copySession(sess), nil
}

func (s memSessions) filter(keep func(*session.Session) bool) []*session.Session {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []*session.Session{}
	for _, sess := range s.m.sessions {
		if keep(&sess) {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s memSessions) GetMany(_ context.Context, ids []int64) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool { return slices.Contains(ids, sess.ID) }), nil
}

func (s memSessions) ListByConference(_ context.Context, conferenceID int64) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool { return sess.ConferenceID == conferenceID }), nil
}

func (s memSessions) ListByConferenceAndType(_ context.Context, conferenceID int64, typeOfSession string) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool {
		return sess.ConferenceID == conferenceID && slices.Contains(sess.TypeOfSession, typeOfSession)
	}), nil
}

func (s memSessions) ListByConferenceAndSpeaker(_ context.Context, conferenceID, speakerID int64) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool {
		return sess.ConferenceID == conferenceID && sess.SpeakerID == speakerID
	}), nil
}

func (s memSessions) ListBySpeaker(_ context.Context, speakerID int64) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool { return sess.SpeakerID == speakerID }), nil
}

func (s memSessions) ListStartingBeforeExcludingType(_ context.Context, before session.TimeOfDay, excludedType string) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool {
		return sess.StartTime.Duration() < before.Duration() && !slices.Contains(sess.TypeOfSession, excludedType)
	}), nil
}

func (s memSessions) ListByAnyHighlight(_ context.Context, highlights []string) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool {
		return slices.ContainsFunc(sess.Highlights, func(h string) bool { return slices.Contains(highlights, h) })
	}), nil
}

func (s memSessions) ListByMaxDuration(_ context.Context, maxMinutes int) ([]*session.Session, error) {
	return s.filter(func(sess *session.Session) bool { return sess.Duration <= maxMinutes }), nil
}

type memSpeakers struct{ m *memStore }

func (s memSpeakers) Create(_ context.Context, sp *speaker.Speaker) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.speakers[sp.ID] = *sp
	return nil
}

func (s memSpeakers) Get(_ context.Context, id int64) (*speaker.Speaker, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sp, ok := s.m.speakers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sp, nil
}

func (s memSpeakers) Query(_ context.Context, name, organization string) ([]*speaker.Speaker, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	out := []*speaker.Speaker{}
	for _, sp := range s.m.speakers {
		if sp.Speaker == name && (organization == "" || sp.Organization == organization) {
			out = append(out, &sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type seqIDs struct {
	mu   sync.Mutex
	next int64
}

func (g *seqIDs) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.next
}

type fakeIdentity struct{}

func (fakeIdentity) Lookup(_ context.Context, userID string) (*Identity, error) {
	return &Identity{UserID: userID, Nickname: userID + "-nick", Email: userID + "@example.com"}, nil
}

type fakeTasks struct {
	mu       sync.Mutex
	created  []job.ConferenceCreatedPayload
	featured []job.FeaturedSpeakerPayload
	err      error
}

func (f *fakeTasks) DispatchConferenceCreated(_ context.Context, p job.ConferenceCreatedPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeTasks) DispatchFeaturedSpeaker(_ context.Context, p job.FeaturedSpeakerPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.featured = append(f.featured, p)
	return nil
}

type fixture struct {
	store *memStore
	cache *cache.Memory
	tasks *fakeTasks
	*Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: newMemStore(),
		cache: cache.NewMemory(),
		tasks: &fakeTasks{},
	}
	t.Cleanup(f.cache.Close)

	f.Services = New(Deps{
		Store:    f.store,
		Cache:    f.cache,
		IDs:      &seqIDs{},
		Tasks:    f.tasks,
		Identity: fakeIdentity{},
	})
	return f
}

func requireStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status, httpErr.Message)
	return httpErr
}

func intPtr(v int) *int { return &v }
