package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/conference"
	"github.com/jackc/pgx/v5"
)

type ConferenceRepository struct {
	db DBTX
}

const conferenceColumns = `
	id,
	organizer_user_id,
	name,
	description,
	topics,
	city,
	start_date,
	end_date,
	month,
	max_attendees,
	seats_available,
	created_at,
	updated_at`

func (r *ConferenceRepository) Create(ctx context.Context, c *conference.Conference) error {
	stmt := `
		INSERT INTO conferences (
			id, organizer_user_id, name, description, topics, city,
			start_date, end_date, month, max_attendees, seats_available
		)
		VALUES (
			@id, @organizer_user_id, @name, @description, @topics, @city,
			@start_date, @end_date, @month, @max_attendees, @seats_available
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, stmt, conferenceArgs(c)).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create conference id=%d: %w", c.ID, err)
	}
	return nil
}

func conferenceArgs(c *conference.Conference) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                c.ID,
		"organizer_user_id": c.OrganizerUserID,
		"name":              c.Name,
		"description":       c.Description,
		"topics":            model.NonNil(c.Topics),
		"city":              c.City,
		"start_date":        c.StartDate,
		"end_date":          c.EndDate,
		"month":             c.Month,
		"max_attendees":     c.MaxAttendees,
		"seats_available":   c.SeatsAvailable,
	}
}

func (r *ConferenceRepository) get(ctx context.Context, id int64, lock bool) (*conference.Conference, error) {
	stmt := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = @id`
	if lock {
		stmt += ` FOR UPDATE`
	}

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get conference query for id=%d: %w", id, err)
	}
	return one(pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[conference.Conference]))
}

func (r *ConferenceRepository) Get(ctx context.Context, id int64) (*conference.Conference, error) {
	return r.get(ctx, id, false)
}

func (r *ConferenceRepository) GetForUpdate(ctx context.Context, id int64) (*conference.Conference, error) {
	return r.get(ctx, id, true)
}

func (r *ConferenceRepository) GetMany(ctx context.Context, ids []int64) ([]*conference.Conference, error) {
	if len(ids) == 0 {
		return []*conference.Conference{}, nil
	}
	return r.list(ctx, `WHERE id = ANY(@ids) ORDER BY name, id`, pgx.NamedArgs{"ids": ids})
}

func (r *ConferenceRepository) Update(ctx context.Context, c *conference.Conference) error {
	stmt := `
		UPDATE conferences
		SET
			name = @name,
			description = @description,
			topics = @topics,
			city = @city,
			start_date = @start_date,
			end_date = @end_date,
			month = @month,
			max_attendees = @max_attendees,
			seats_available = @seats_available,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = @id
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, stmt, conferenceArgs(c)).Scan(&c.UpdatedAt)
	if _, err = one(c, err); err != nil {
		return err
	}
	return nil
}

func (r *ConferenceRepository) ListByOrganizer(ctx context.Context, userID string) ([]*conference.Conference, error) {
	return r.list(ctx, `WHERE organizer_user_id = @user_id ORDER BY name, id`, pgx.NamedArgs{"user_id": userID})
}

func (r *ConferenceRepository) Query(ctx context.Context, q *conference.Query) ([]*conference.Conference, error) {
	where, args, err := buildConferenceQuery(q)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, where, args)
}

func (r *ConferenceRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*conference.Conference, error) {
	return r.list(ctx,
		`WHERE seats_available > 0 AND seats_available <= @max_seats ORDER BY name, id`,
		pgx.NamedArgs{"max_seats": maxSeats},
	)
}

func (r *ConferenceRepository) list(ctx context.Context, clause string, args pgx.NamedArgs) ([]*conference.Conference, error) {
	rows, err := r.db.Query(ctx, `SELECT `+conferenceColumns+` FROM conferences `+clause, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute conference list query: %w", err)
	}

	confs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[conference.Conference])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:conferences: %w", err)
	}
	return confs, nil
}
