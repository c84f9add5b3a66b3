package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/conference-central/internal/model/speaker"
	"github.com/jackc/pgx/v5"
)

type SpeakerRepository struct {
	db DBTX
}

const speakerColumns = `id, speaker, organization, created_at, updated_at`

func (r *SpeakerRepository) Create(ctx context.Context, s *speaker.Speaker) error {
	stmt := `
		INSERT INTO speakers (id, speaker, organization)
		VALUES (@id, @speaker, @organization)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, stmt, pgx.NamedArgs{
		"id":           s.ID,
		"speaker":      s.Speaker,
		"organization": s.Organization,
	}).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create speaker id=%d: %w", s.ID, err)
	}
	return nil
}

func (r *SpeakerRepository) Get(ctx context.Context, id int64) (*speaker.Speaker, error) {
	rows, err := r.db.Query(ctx, `SELECT `+speakerColumns+` FROM speakers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get speaker query for id=%d: %w", id, err)
	}
	return one(pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[speaker.Speaker]))
}

func (r *SpeakerRepository) Query(ctx context.Context, name, organization string) ([]*speaker.Speaker, error) {
	stmt := `SELECT ` + speakerColumns + ` FROM speakers WHERE speaker = @speaker`
	args := pgx.NamedArgs{"speaker": name}
	if organization != "" {
		stmt += ` AND organization = @organization`
		args["organization"] = organization
	}
	stmt += ` ORDER BY speaker, organization, id`

	rows, err := r.db.Query(ctx, stmt, args)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query speakers for speaker=%s: %w", name, err)
	}

	speakers, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[speaker.Speaker])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:speakers: %w", err)
	}
	return speakers, nil
}
