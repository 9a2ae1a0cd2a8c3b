package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is the durable identity entity. It is created inactive on signup;
// activation happens outside the API.
type Account struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the one-to-one companion of an Account. It holds the free-text
// bio and a URL reference to an externally stored picture; the picture bytes
// themselves never live here.
type Profile struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Bio        string
	PictureURL string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewWithProfile constructs an account together with its profile. Every
// account gets exactly one profile, so the two are always built and persisted
// as a pair.
func NewWithProfile(username, email, passwordHash string) (Account, Profile) {
	acct := Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       false,
	}
	prof := Profile{
		ID:        uuid.New(),
		AccountID: acct.ID,
	}
	return acct, prof
}
