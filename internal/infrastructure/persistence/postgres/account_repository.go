package postgres

import (
	"context"

	"blog-api/internal/database"
	"blog-api/internal/domain/account"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AccountRepository struct {
	db database.DB
}

func NewAccountRepository(db database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateWithProfile inserts the account and its companion profile in one
// transaction, so no account ever exists without a profile.
func (r *AccountRepository) CreateWithProfile(ctx context.Context, acct account.Account, prof account.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO accounts (id, username, email, password_hash, first_name, last_name, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		acct.ID, acct.Username, acct.Email, acct.PasswordHash, acct.FirstName, acct.LastName, acct.Active,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, account_id, bio, picture_url)
		 VALUES ($1, $2, $3, $4)`,
		prof.ID, prof.AccountID, prof.Bio, prof.PictureURL,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name, active, created_at, updated_at
		 FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name, active, created_at, updated_at
		 FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *AccountRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1 OR username = $2)`,
		email, username,
	).Scan(&exists)
	return exists, err
}

func (r *AccountRepository) Update(ctx context.Context, acct account.Account) error {
	n, err := r.db.Exec(ctx,
		`UPDATE accounts
		 SET username = $2, email = $3, first_name = $4, last_name = $5, active = $6, updated_at = now()
		 WHERE id = $1`,
		acct.ID, acct.Username, acct.Email, acct.FirstName, acct.LastName, acct.Active,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scanAccount(row database.Row) (account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return a, nil
}
