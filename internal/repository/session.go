package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SessionRepository struct {
	db DBTX
}

// Sessions are read joined with their conference, for the organizer part
// of the key, and their speaker, for the display name.
const sessionSelect = `
	SELECT
		s.id,
		s.conference_id,
		c.organizer_user_id,
		s.name,
		s.highlights,
		s.speaker_id,
		sp.speaker,
		s.duration,
		s.type_of_session,
		s.date,
		s.start_time,
		s.created_at
	FROM sessions s
	JOIN conferences c ON c.id = s.conference_id
	JOIN speakers sp ON sp.id = s.speaker_id`

const sessionOrder = ` ORDER BY s.name, s.id`

// scanSession reads one row of sessionSelect. start_time has no struct
// mapping, so rows are scanned by position.
func scanSession(row pgx.CollectableRow) (*session.Session, error) {
	var (
		s     session.Session
		start pgtype.Time
	)
	err := row.Scan(
		&s.ID,
		&s.ConferenceID,
		&s.OrganizerUserID,
		&s.Name,
		&s.Highlights,
		&s.SpeakerID,
		&s.SpeakerName,
		&s.Duration,
		&s.TypeOfSession,
		&s.Date,
		&start,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		s.StartTime = session.TimeOfDayFromDuration(time.Duration(start.Microseconds) * time.Microsecond)
	}
	return &s, nil
}

func pgTime(t session.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	stmt := `
		INSERT INTO sessions (
			id, conference_id, name, highlights, speaker_id,
			duration, type_of_session, date, start_time
		)
		VALUES (
			@id, @conference_id, @name, @highlights, @speaker_id,
			@duration, @type_of_session, @date, @start_time
		)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, stmt, pgx.NamedArgs{
		"id":              s.ID,
		"conference_id":   s.ConferenceID,
		"name":            s.Name,
		"highlights":      model.NonNil(s.Highlights),
		"speaker_id":      s.SpeakerID,
		"duration":        s.Duration,
		"type_of_session": model.NonNil(s.TypeOfSession),
		"date":            s.Date,
		"start_time":      pgTime(s.StartTime),
	}).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session id=%d: %w", s.ID, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	rows, err := r.db.Query(ctx, sessionSelect+` WHERE s.id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get session query for id=%d: %w", id, err)
	}
	return one(pgx.CollectExactlyOneRow(rows, scanSession))
}

func (r *SessionRepository) GetMany(ctx context.Context, ids []int64) ([]*session.Session, error) {
	if len(ids) == 0 {
		return []*session.Session{}, nil
	}
	return r.list(ctx, `WHERE s.id = ANY(@ids)`, pgx.NamedArgs{"ids": ids})
}

func (r *SessionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]*session.Session, error) {
	return r.list(ctx, `WHERE s.conference_id = @conference_id`, pgx.NamedArgs{"conference_id": conferenceID})
}

func (r *SessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID int64, typeOfSession string) ([]*session.Session, error) {
	return r.list(ctx,
		`WHERE s.conference_id = @conference_id AND @type = ANY(s.type_of_session)`,
		pgx.NamedArgs{"conference_id": conferenceID, "type": typeOfSession},
	)
}

func (r *SessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID int64) ([]*session.Session, error) {
	return r.list(ctx,
		`WHERE s.conference_id = @conference_id AND s.speaker_id = @speaker_id`,
		pgx.NamedArgs{"conference_id": conferenceID, "speaker_id": speakerID},
	)
}

func (r *SessionRepository) ListBySpeaker(ctx context.Context, speakerID int64) ([]*session.Session, error) {
	return r.list(ctx, `WHERE s.speaker_id = @speaker_id`, pgx.NamedArgs{"speaker_id": speakerID})
}

func (r *SessionRepository) ListStartingBeforeExcludingType(ctx context.Context, before session.TimeOfDay, excludedType string) ([]*session.Session, error) {
	return r.list(ctx,
		`WHERE s.start_time < @before AND NOT (@excluded = ANY(s.type_of_session))`,
		pgx.NamedArgs{"before": pgTime(before), "excluded": excludedType},
	)
}

func (r *SessionRepository) ListByAnyHighlight(ctx context.Context, highlights []string) ([]*session.Session, error) {
	return r.list(ctx, `WHERE s.highlights && @highlights`, pgx.NamedArgs{"highlights": highlights})
}

func (r *SessionRepository) ListByMaxDuration(ctx context.Context, maxMinutes int) ([]*session.Session, error) {
	return r.list(ctx, `WHERE s.duration <= @duration`, pgx.NamedArgs{"duration": maxMinutes})
}

func (r *SessionRepository) list(ctx context.Context, where string, args pgx.NamedArgs) ([]*session.Session, error) {
	rows, err := r.db.Query(ctx, sessionSelect+` `+where+sessionOrder, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute session list query: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, scanSession)
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:sessions: %w", err)
	}
	return sessions, nil
}
