package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

type Repository interface {
	// CreateWithProfile persists an account and its companion profile as a
	// single atomic write.
	CreateWithProfile(ctx context.Context, acct Account, prof Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	Update(ctx context.Context, acct Account) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type ProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (Profile, error)
	Update(ctx context.Context, prof Profile) error
}
