package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConference(t *testing.T, f *fixture, userID string, p conference.CreateConferencePayload) *conference.Form {
	t.Helper()
	form, err := f.Conference.Create(context.Background(), userID, &p)
	require.NoError(t, err)
	return form
}

func TestCreateConferenceAppliesDefaults(t *testing.T) {
	f := newFixture(t)

	form := createConference(t, f, "alice", conference.CreateConferencePayload{Name: "GopherCon"})

	assert.Equal(t, conference.DefaultCity, form.City)
	assert.Equal(t, conference.DefaultTopics, form.Topics)
	assert.Equal(t, 0, form.MaxAttendees)
	assert.Equal(t, 0, form.SeatsAvailable)
	assert.Equal(t, "alice", form.OrganizerUserID)
	assert.Equal(t, "alice-nick", form.OrganizerDisplayName)
	assert.NotEmpty(t, form.WebsafeKey)

	require.Len(t, f.tasks.created, 1)
	assert.Equal(t, "alice@example.com", f.tasks.created[0].To)
	assert.Equal(t, form.WebsafeKey, f.tasks.created[0].WebsafeKey)
}

func TestCreateConferenceSeatsAndMonth(t *testing.T) {
	f := newFixture(t)

	form := createConference(t, f, "alice", conference.CreateConferencePayload{
		Name:         "GopherCon",
		StartDate:    "2026-07-14T00:00:00",
		EndDate:      "2026-07-16",
		MaxAttendees: intPtr(100),
	})

	assert.Equal(t, 100, form.SeatsAvailable)
	assert.Equal(t, 7, form.Month)
	assert.Equal(t, "2026-07-14", form.StartDate)
}

func TestCreateConferenceSurvivesDispatchFailure(t *testing.T) {
	f := newFixture(t)
	f.tasks.err = errors.New("queue down")

	form := createConference(t, f, "alice", conference.CreateConferencePayload{Name: "GopherCon"})

	got, err := f.Conference.Get(context.Background(), form.WebsafeKey)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon", got.Name)
}

func TestGetConference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := createConference(t, f, "alice", conference.CreateConferencePayload{Name: "GopherCon"})

	got, err := f.Conference.Get(ctx, form.WebsafeKey)
	require.NoError(t, err)
	assert.Equal(t, form.WebsafeKey, got.WebsafeKey)
	assert.Equal(t, "alice-nick", got.OrganizerDisplayName)

	_, err = f.Conference.Get(ctx, "not-a-key")
	requireStatus(t, err, http.StatusBadRequest)

	spk, err := f.Speaker.Create(ctx, &speaker.CreateSpeakerPayload{Speaker: "Ada"})
	require.NoError(t, err)
	_, err = f.Conference.Get(ctx, spk.WebsafeSpeakerKey)
	requireStatus(t, err, http.StatusBadRequest)

	f.store.conferences = map[int64]conference.Conference{}
	_, err = f.Conference.Get(ctx, form.WebsafeKey)
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdateConference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := createConference(t, f, "alice", conference.CreateConferencePayload{
		Name:         "GopherCon",
		MaxAttendees: intPtr(10),
	})

	for _, u := range []string{"bob", "carol", "dave"} {
		ok, err := f.Conference.Register(ctx, u, form.WebsafeKey)
		require.NoError(t, err)
		require.True(t, ok)
	}

	name := "GopherCon EU"
	_, err := f.Conference.Update(ctx, "bob", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		Name:                 &name,
	})
	requireStatus(t, err, http.StatusForbidden)

	_, err = f.Conference.Update(ctx, "alice", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		MaxAttendees:         intPtr(2),
	})
	requireStatus(t, err, http.StatusConflict)

	start := "2026-03-01"
	updated, err := f.Conference.Update(ctx, "alice", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		Name:                 &name,
		StartDate:            &start,
		MaxAttendees:         intPtr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "GopherCon EU", updated.Name)
	assert.Equal(t, 3, updated.Month)
	assert.Equal(t, 5, updated.MaxAttendees)
	assert.Equal(t, 2, updated.SeatsAvailable)
}

func TestUpdateConferenceRejectsEndBeforeStoredStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := createConference(t, f, "alice", conference.CreateConferencePayload{
		Name:      "GopherCon",
		StartDate: "2026-07-14",
		EndDate:   "2026-07-16",
	})

	end := "2026-07-01"
	_, err := f.Conference.Update(ctx, "alice", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		EndDate:              &end,
	})
	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "DATES_OUT_OF_ORDER", httpErr.Code)

	got, err := f.Conference.Get(ctx, form.WebsafeKey)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-16", got.EndDate)

	start := "2026-07-20"
	_, err = f.Conference.Update(ctx, "alice", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		StartDate:            &start,
	})
	requireStatus(t, err, http.StatusBadRequest)

	end = "2026-07-15"
	updated, err := f.Conference.Update(ctx, "alice", &conference.UpdateConferencePayload{
		WebsafeConferenceKey: form.WebsafeKey,
		EndDate:              &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", updated.EndDate)
}

func TestRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := createConference(t, f, "alice", conference.CreateConferencePayload{
		Name:         "GopherCon",
		MaxAttendees: intPtr(1),
	})

	ok, err := f.Conference.Register(ctx, "bob", form.WebsafeKey)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.Conference.Register(ctx, "bob", form.WebsafeKey)
	httpErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "You have already registered for this conference", httpErr.Message)

	_, err = f.Conference.Register(ctx, "carol", form.WebsafeKey)
	httpErr = requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "There are no seats available.", httpErr.Message)

	attending, err := f.Conference.Attending(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, attending, 1)
	assert.Equal(t, 0, attending[0].SeatsAvailable)

	ok, err = f.Conference.Unregister(ctx, "bob", form.WebsafeKey)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Conference.Unregister(ctx, "bob", form.WebsafeKey)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := f.Conference.Get(ctx, form.WebsafeKey)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SeatsAvailable)

	attending, err = f.Conference.Attending(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, attending)
}

func TestRegisterMissingConference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	form := createConference(t, f, "alice", conference.CreateConferencePayload{Name: "GopherCon"})
	f.store.conferences = map[int64]conference.Conference{}

	_, err := f.Conference.Register(ctx, "bob", form.WebsafeKey)
	requireStatus(t, err, http.StatusNotFound)
}

func TestQueryConferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "B London", City: "London", MaxAttendees: intPtr(50), Topics: []string{"Medical Innovations"}})
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "A London", City: "London", MaxAttendees: intPtr(5), Topics: []string{"Medical Innovations"}})
	createConference(t, f, "bob", conference.CreateConferencePayload{Name: "Paris", City: "Paris", MaxAttendees: intPtr(50)})

	forms, err := f.Conference.Query(ctx, &conference.QueryConferencesPayload{
		Filters: []conference.QueryFilter{{Field: "CITY", Operator: "EQ", Value: "London"}},
	})
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "A London", forms[0].Name)
	assert.Equal(t, "alice-nick", forms[0].OrganizerDisplayName)

	_, err = f.Conference.Query(ctx, &conference.QueryConferencesPayload{
		Filters: []conference.QueryFilter{{Field: "VENUE", Operator: "EQ", Value: "x"}},
	})
	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Filter contains invalid field or operator.", httpErr.Message)

	_, err = f.Conference.Query(ctx, &conference.QueryConferencesPayload{
		Filters: []conference.QueryFilter{
			{Field: "MONTH", Operator: "GT", Value: "1"},
			{Field: "MAX_ATTENDEES", Operator: "LT", Value: "10"},
		},
	})
	httpErr = requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Inequality filter is allowed on only one field.", httpErr.Message)

	forms, err = f.Conference.Playground(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "B London", forms[0].Name)
}

func TestConferencesCreated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "Two"})
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "One"})
	createConference(t, f, "bob", conference.CreateConferencePayload{Name: "Other"})

	forms, err := f.Conference.Created(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "One", forms[0].Name)
	assert.Equal(t, "alice-nick", forms[1].OrganizerDisplayName)
}

func TestAnnouncement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.Conference.GetAnnouncement(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	small := createConference(t, f, "alice", conference.CreateConferencePayload{Name: "Small", MaxAttendees: intPtr(3)})
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "Tiny", MaxAttendees: intPtr(1)})
	createConference(t, f, "alice", conference.CreateConferencePayload{Name: "Big", MaxAttendees: intPtr(100)})

	msg, err := f.Conference.RefreshAnnouncement(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Last chance to attend! The following conferences are nearly sold out: Small, Tiny", msg)

	got, err = f.Conference.GetAnnouncement(ctx)
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	for _, u := range []string{"bob", "carol", "dave"} {
		_, err := f.Conference.Register(ctx, u, small.WebsafeKey)
		require.NoError(t, err)
	}

	msg, err = f.Conference.RefreshAnnouncement(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Last chance to attend! The following conferences are nearly sold out: Tiny", msg)

	f.store.conferences = map[int64]conference.Conference{}

	msg, err = f.Conference.RefreshAnnouncement(ctx)
	require.NoError(t, err)
	assert.Empty(t, msg)

	got, err = f.Conference.GetAnnouncement(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
