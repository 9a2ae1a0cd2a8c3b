package usecase

import (
	"context"
	"errors"
	"time"

	"blog-api/internal/domain/account"
	"blog-api/internal/pkg/jwt"
	ucauth "blog-api/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

const blacklistKeyPrefix = "jwt:blacklist:"

// TokenBlacklist records revoked refresh tokens until they would have
// expired on their own.
type TokenBlacklist interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, error)
	Login(ctx context.Context, in ucauth.LoginInput) (account.Account, account.Profile, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type Auth struct {
	authSvc   *ucauth.Service
	accounts  account.Repository
	profiles  account.ProfileRepository
	jwt       jwt.Service
	blacklist TokenBlacklist

	now func() time.Time
}

func NewAuthUsecase(authSvc *ucauth.Service, accounts account.Repository, profiles account.ProfileRepository, jwtSvc jwt.Service, blacklist TokenBlacklist) *Auth {
	return &Auth{authSvc: authSvc, accounts: accounts, profiles: profiles, jwt: jwtSvc, blacklist: blacklist, now: time.Now}
}

// Register creates the account but issues no tokens. The account starts
// inactive, so a login would be rejected anyway.
func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (account.Account, error) {
	return u.authSvc.Register(ctx, in)
}

// Login authenticates and issues a token pair. The profile rides along so the
// response can embed it in the account projection.
func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (account.Account, account.Profile, string, string, error) {
	acct, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return account.Account{}, account.Profile{}, "", "", err
	}

	// Every account is created with a profile, so a miss here is a data
	// integrity fault rather than a client error.
	prof, err := u.profiles.GetByAccountID(ctx, acct.ID)
	if err != nil {
		return account.Account{}, account.Profile{}, "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(acct.ID, acct.Email)
	if err != nil {
		return account.Account{}, account.Profile{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(acct.ID)
	if err != nil {
		return account.Account{}, account.Profile{}, "", "", ErrInternal
	}

	return acct, prof, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	if _, revoked, err := u.blacklist.GetString(ctx, blacklistKeyPrefix+refreshToken); err != nil {
		return "", "", ErrInternal
	} else if revoked {
		return "", "", ErrInvalidRefreshToken
	}

	acct, err := u.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(acct.ID, acct.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	newRefresh, err := u.jwt.GenerateRefreshToken(acct.ID)
	if err != nil {
		return "", "", ErrInternal
	}

	return access, newRefresh, nil
}

// Logout blacklists the refresh token for the remainder of its life. Access
// tokens are short-lived and simply expire.
func (u *Auth) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrInvalidRefreshToken
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Nothing to revoke, the token can no longer be used.
			return nil
		}
		return ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return ErrInvalidRefreshToken
	}

	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(u.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := u.blacklist.SetString(ctx, blacklistKeyPrefix+refreshToken, "revoked", ttl); err != nil {
		return ErrInternal
	}
	return nil
}

func (u *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	return u.authSvc.RequestPasswordReset(ctx, email)
}

func (u *Auth) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return u.authSvc.ConfirmPasswordReset(ctx, token, newPassword)
}
