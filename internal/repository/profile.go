package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/conference-central/internal/model"
	"github.com/deppfellow/conference-central/internal/model/profile"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository struct {
	db DBTX
}

const profileColumns = `
	user_id,
	display_name,
	main_email,
	tee_shirt_size,
	conference_keys_to_attend,
	wish_list,
	created_at,
	updated_at`

func (r *ProfileRepository) get(ctx context.Context, userID string, lock bool) (*profile.Profile, error) {
	stmt := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = @user_id`
	if lock {
		stmt += ` FOR UPDATE`
	}

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get profile query for user_id=%s: %w", userID, err)
	}

	return one(pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[profile.Profile]))
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	return r.get(ctx, userID, false)
}

func (r *ProfileRepository) GetForUpdate(ctx context.Context, userID string) (*profile.Profile, error) {
	return r.get(ctx, userID, true)
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	// The no-op update makes RETURNING yield the existing row on conflict,
	// so two first requests from the same user race safely.
	stmt := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size)
		VALUES (@user_id, @display_name, @main_email, @tee_shirt_size)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + profileColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"user_id":        p.UserID,
		"display_name":   p.DisplayName,
		"main_email":     p.MainEmail,
		"tee_shirt_size": p.TeeShirtSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create profile query for user_id=%s: %w", p.UserID, err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[profile.Profile])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:profiles for user_id=%s: %w", p.UserID, err)
	}
	return created, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	stmt := `
		UPDATE profiles
		SET
			display_name = @display_name,
			tee_shirt_size = @tee_shirt_size,
			conference_keys_to_attend = @conference_keys_to_attend,
			wish_list = @wish_list,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = @user_id`

	tag, err := r.db.Exec(ctx, stmt, pgx.NamedArgs{
		"user_id":                   p.UserID,
		"display_name":              p.DisplayName,
		"tee_shirt_size":            p.TeeShirtSize,
		"conference_keys_to_attend": model.NonNil(p.ConferenceKeysToAttend),
		"wish_list":                 model.NonNil(p.WishList),
	})
	if err != nil {
		return fmt.Errorf("failed to update profile user_id=%s: %w", p.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
