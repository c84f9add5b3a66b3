// Package repository persists entities in PostgreSQL.
//
// Each entity kind has its own table. Keys are not stored; a websafe key is
// rebuilt from the row's id and its parent columns. Registrations and
// wishlists live on the profile row as websafe key arrays.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("entity not found")

// DBTX is satisfied by both the pool and a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, userID string) (*profile.Profile, error)
	// Create inserts p unless a profile already exists and returns the
	// stored row either way.
	Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
	Update(ctx context.Context, p *profile.Profile) error
}

type ConferenceStore interface {
	Create(ctx context.Context, c *conference.Conference) error
	Get(ctx context.Context, id int64) (*conference.Conference, error)
	GetForUpdate(ctx context.Context, id int64) (*conference.Conference, error)
	// GetMany skips ids with no row. Results are ordered by name.
	GetMany(ctx context.Context, ids []int64) ([]*conference.Conference, error)
	Update(ctx context.Context, c *conference.Conference) error
	ListByOrganizer(ctx context.Context, userID string) ([]*conference.Conference, error)
	Query(ctx context.Context, q *conference.Query) ([]*conference.Conference, error)
	// ListNearlySoldOut returns conferences with 0 < seats <= maxSeats.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*conference.Conference, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id int64) (*session.Session, error)
	GetMany(ctx context.Context, ids []int64) ([]*session.Session, error)
	ListByConference(ctx context.Context, conferenceID int64) ([]*session.Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID int64, typeOfSession string) ([]*session.Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID int64) ([]*session.Session, error)
	ListBySpeaker(ctx context.Context, speakerID int64) ([]*session.Session, error)
	// ListStartingBeforeExcludingType returns sessions starting strictly
	// before the given time that are not tagged with excludedType.
	ListStartingBeforeExcludingType(ctx context.Context, before session.TimeOfDay, excludedType string) ([]*session.Session, error)
	ListByAnyHighlight(ctx context.Context, highlights []string) ([]*session.Session, error)
	ListByMaxDuration(ctx context.Context, maxMinutes int) ([]*session.Session, error)
}

type SpeakerStore interface {
	Create(ctx context.Context, s *speaker.Speaker) error
	Get(ctx context.Context, id int64) (*speaker.Speaker, error)
	// Query matches on exact name, and on organization when it is non-empty.
	Query(ctx context.Context, name, organization string) ([]*speaker.Speaker, error)
}

// Store groups the per-kind stores and runs transactions across them.
type Store interface {
	Profiles() ProfileStore
	Conferences() ConferenceStore
	Sessions() SessionStore
	Speakers() SpeakerStore
	// WithTx runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// Repositories is the pgx backed Store.
type Repositories struct {
	pool *pgxpool.Pool
	db   DBTX

	profiles    *ProfileRepository
	conferences *ConferenceRepository
	sessions    *SessionRepository
	speakers    *SpeakerRepository
}

func newRepositories(pool *pgxpool.Pool, db DBTX) *Repositories {
	return &Repositories{
		pool:        pool,
		db:          db,
		profiles:    &ProfileRepository{db: db},
		conferences: &ConferenceRepository{db: db},
		sessions:    &SessionRepository{db: db},
		speakers:    &SpeakerRepository{db: db},
	}
}

func (r *Repositories) Profiles() ProfileStore       { return r.profiles }
func (r *Repositories) Conferences() ConferenceStore { return r.conferences }
func (r *Repositories) Sessions() SessionStore       { return r.sessions }
func (r *Repositories) Speakers() SpeakerStore       { return r.speakers }

// txTimeout bounds commit and rollback. They never use the caller's
// context, which may already be cancelled.
const txTimeout = 10 * time.Second

func (r *Repositories) WithTx(ctx context.Context, fn func(Store) error) (err error) {
	if _, inTx := r.db.(pgx.Tx); inTx {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbCtx, cancel := context.WithTimeout(context.Background(), txTimeout)
		defer cancel()

		if rbErr := tx.Rollback(rbCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			if err != nil {
				err = errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
			} else {
				err = fmt.Errorf("rollback failed: %w", rbErr)
			}
		}
	}()

	if err = fn(newRepositories(r.pool, tx)); err != nil {
		return err
	}

	commitCtx, cancel := context.WithTimeout(context.Background(), txTimeout)
	defer cancel()

	if err = tx.Commit(commitCtx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// one maps pgx.ErrNoRows onto ErrNotFound.
func one[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
