package postgres

import (
	"context"

	"blog-api/internal/database"
	"blog-api/internal/domain/account"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProfileRepository struct {
	db database.DB
}

func NewProfileRepository(db database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (account.Profile, error) {
	var p account.Profile
	err := r.db.QueryRow(ctx,
		`SELECT id, account_id, bio, picture_url, created_at, updated_at
		 FROM profiles WHERE account_id = $1`, accountID,
	).Scan(&p.ID, &p.AccountID, &p.Bio, &p.PictureURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return account.Profile{}, account.ErrNotFound
		}
		return account.Profile{}, err
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, prof account.Profile) error {
	n, err := r.db.Exec(ctx,
		`UPDATE profiles SET bio = $2, picture_url = $3, updated_at = now() WHERE id = $1`,
		prof.ID, prof.Bio, prof.PictureURL,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}
