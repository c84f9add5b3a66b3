//go:build integration

package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/conference-central/internal/database"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -tags integration ./internal/repository/...
// CONFERENCE_TEST_DATABASE_DSN points at a throwaway database; every table
// is truncated before each test.
func testDSN() string {
	if dsn := os.Getenv("CONFERENCE_TEST_DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return "host=localhost dbname=conference_test sslmode=disable"
}

func setupIntegrationTest(t *testing.T) *Repositories {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	ctx := context.Background()

	logger := zerolog.Nop()
	require.NoError(t, database.MigrateDSN(ctx, &logger, testDSN()))

	pool, err := pgxpool.New(ctx, testDSN())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE sessions, speakers, conferences, profiles")
	require.NoError(t, err)

	return newRepositories(pool, pool)
}

const (
	testConferenceID = 1001
	adaID            = 2001
	graceID          = 2002
)

func date(s string) *time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &d
}

// seed stores one organizer, one conference with two seats, two speakers
// and four sessions.
func seed(t *testing.T, r *Repositories) *conference.Conference {
	t.Helper()
	ctx := context.Background()

	_, err := r.Profiles().Create(ctx, &profile.Profile{
		UserID:       "alice",
		DisplayName:  "Alice",
		MainEmail:    "alice@example.com",
		TeeShirtSize: profile.TeeShirtNotSpecified,
	})
	require.NoError(t, err)

	conf := &conference.Conference{
		ID:              testConferenceID,
		OrganizerUserID: "alice",
		Name:            "GopherCon",
		Topics:          []string{"Go", "Cloud"},
		City:            "Berlin",
		StartDate:       date("2026-07-14"),
		EndDate:         date("2026-07-16"),
		Month:           7,
		MaxAttendees:    2,
		SeatsAvailable:  2,
	}
	require.NoError(t, r.Conferences().Create(ctx, conf))

	require.NoError(t, r.Speakers().Create(ctx, &speaker.Speaker{ID: adaID, Speaker: "Ada", Organization: "Analytical"}))
	require.NoError(t, r.Speakers().Create(ctx, &speaker.Speaker{ID: graceID, Speaker: "Grace"}))

	sessions := []session.Session{
		{ID: 3001, Name: "Keynote", SpeakerID: adaID, Duration: 60, Highlights: []string{"go", "cloud"}, TypeOfSession: []string{"Keynote"}, StartTime: session.TimeOfDay{Hour: 9}},
		{ID: 3002, Name: "Evening Workshop", SpeakerID: adaID, Duration: 180, Highlights: []string{"k8s"}, TypeOfSession: []string{"Workshop"}, StartTime: session.TimeOfDay{Hour: 18}},
		{ID: 3003, Name: "Late Talk", SpeakerID: graceID, Duration: 30, Highlights: []string{"go"}, TypeOfSession: []string{"Talk"}, StartTime: session.TimeOfDay{Hour: 20, Minute: 15}},
		{ID: 3004, Name: "Lightning", SpeakerID: graceID, Duration: 5, Highlights: []string{"misc"}, TypeOfSession: []string{"Talk", "Lightning"}, StartTime: session.TimeOfDay{Hour: 13, Minute: 30}},
	}
	for i := range sessions {
		s := sessions[i]
		s.ConferenceID = testConferenceID
		require.NoError(t, r.Sessions().Create(ctx, &s))
	}

	return conf
}

func sessionNames(sessions []*session.Session) []string {
	names := make([]string, 0, len(sessions))
	for _, s := range sessions {
		names = append(names, s.Name)
	}
	return names
}

func TestSessionQueries(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)
	ctx := context.Background()

	t.Run("before seven excluding workshops", func(t *testing.T) {
		got, err := r.Sessions().ListStartingBeforeExcludingType(ctx, session.TimeOfDay{Hour: 19}, "Workshop")
		require.NoError(t, err)
		assert.Equal(t, []string{"Keynote", "Lightning"}, sessionNames(got))
	})

	t.Run("any highlight overlaps", func(t *testing.T) {
		got, err := r.Sessions().ListByAnyHighlight(ctx, []string{"cloud", "k8s"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Evening Workshop", "Keynote"}, sessionNames(got))

		got, err = r.Sessions().ListByAnyHighlight(ctx, []string{"rust"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("max duration is inclusive", func(t *testing.T) {
		got, err := r.Sessions().ListByMaxDuration(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, []string{"Late Talk", "Lightning"}, sessionNames(got))
	})

	t.Run("by conference and type", func(t *testing.T) {
		got, err := r.Sessions().ListByConferenceAndType(ctx, testConferenceID, "Talk")
		require.NoError(t, err)
		assert.Equal(t, []string{"Late Talk", "Lightning"}, sessionNames(got))
	})

	t.Run("by conference and speaker", func(t *testing.T) {
		got, err := r.Sessions().ListByConferenceAndSpeaker(ctx, testConferenceID, adaID)
		require.NoError(t, err)
		require.Equal(t, []string{"Evening Workshop", "Keynote"}, sessionNames(got))
		assert.Equal(t, "Ada", got[0].SpeakerName)
		assert.Equal(t, "alice", got[0].OrganizerUserID)
	})

	t.Run("start time round trips", func(t *testing.T) {
		got, err := r.Sessions().Get(ctx, 3003)
		require.NoError(t, err)
		assert.Equal(t, session.TimeOfDay{Hour: 20, Minute: 15}, got.StartTime)
		assert.False(t, got.CreatedAt.IsZero())

		_, err = r.Sessions().Get(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConferenceRowsScanTimestamps(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)
	ctx := context.Background()

	got, err := r.Conferences().Get(ctx, testConferenceID)
	require.NoError(t, err)
	assert.Equal(t, "GopherCon", got.Name)
	assert.Equal(t, []string{"Go", "Cloud"}, got.Topics)
	assert.Equal(t, "2026-07-14", got.StartDate.Format(time.DateOnly))
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	prof, err := r.Profiles().Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, prof.CreatedAt.IsZero())
	assert.NotNil(t, prof.WishList)

	_, err = r.Conferences().Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileCreateReturnsExistingRow(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)

	got, err := r.Profiles().Create(context.Background(), &profile.Profile{
		UserID:       "alice",
		DisplayName:  "Someone Else",
		TeeShirtSize: profile.TeeShirtNotSpecified,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)
}

func TestConferenceQueryFilters(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)
	ctx := context.Background()

	q, err := conference.FormatFilters([]conference.QueryFilter{
		{Field: "TOPIC", Operator: "EQ", Value: "Go"},
		{Field: "MAX_ATTENDEES", Operator: "GT", Value: "1"},
	})
	require.NoError(t, err)
	got, err := r.Conferences().Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GopherCon", got[0].Name)

	q, err = conference.FormatFilters([]conference.QueryFilter{
		{Field: "CITY", Operator: "EQ", Value: "London"},
	})
	require.NoError(t, err)
	got, err = r.Conferences().Query(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeatsCheckConstraint(t *testing.T) {
	r := setupIntegrationTest(t)
	conf := seed(t, r)

	conf.SeatsAvailable = -1
	err := r.Conferences().Update(context.Background(), conf)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23514", pgErr.Code)
	assert.Equal(t, "conferences_seats_check", pgErr.ConstraintName)
}

func TestGetForUpdateSerializesSeatChanges(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)
	ctx := context.Background()
	errSoldOut := errors.New("sold out")

	const attempts = 6
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.WithTx(ctx, func(tx Store) error {
				c, err := tx.Conferences().GetForUpdate(ctx, testConferenceID)
				if err != nil {
					return err
				}
				if c.SeatsAvailable == 0 {
					return errSoldOut
				}
				c.SeatsAvailable--
				return tx.Conferences().Update(ctx, c)
			})
		}()
	}
	wg.Wait()

	taken := 0
	for _, err := range results {
		if err == nil {
			taken++
			continue
		}
		assert.ErrorIs(t, err, errSoldOut)
	}
	assert.Equal(t, 2, taken)

	got, err := r.Conferences().Get(ctx, testConferenceID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SeatsAvailable)
}

func TestWithTxRollsBack(t *testing.T) {
	r := setupIntegrationTest(t)
	seed(t, r)
	ctx := context.Background()

	boom := errors.New("boom")
	err := r.WithTx(ctx, func(tx Store) error {
		p, err := tx.Profiles().GetForUpdate(ctx, "alice")
		if err != nil {
			return err
		}
		p.WishList = append(p.WishList, "wssk")
		if err := tx.Profiles().Update(ctx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := r.Profiles().Get(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, p.WishList)
}
