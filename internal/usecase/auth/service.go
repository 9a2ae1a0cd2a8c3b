package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/domain/account"
	"blog-api/internal/infrastructure/mail"
)

var (
	ErrAlreadyRegistered  = errors.New("account with these credentials already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAccountInactive    = errors.New("account is not active")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid or expired")
	ErrInternal           = errors.New("internal error")
)

const resetTokenTTL = 30 * time.Minute

const resetKeyPrefix = "pwreset:"

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// tokenStore is the slice of the cache the reset flow needs.
type tokenStore interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	accounts account.Repository
	tokens   tokenStore
	mailer   mail.Mailer
	baseURL  string
	logger   *log.Logger
}

func NewService(accounts account.Repository, tokens tokenStore, mailer mail.Mailer, baseURL string, logger *log.Logger) *Service {
	return &Service{accounts: accounts, tokens: tokens, mailer: mailer, baseURL: baseURL, logger: logger}
}

// Register creates an inactive account together with its empty profile.
// Activation is an operator action, not an API one.
func (s *Service) Register(ctx context.Context, in RegisterInput) (account.Account, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return account.Account{}, ErrInvalidInput
	}
	if !isValidPassword(in.Password) {
		return account.Account{}, ErrInvalidInput
	}

	exists, err := s.accounts.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return account.Account{}, ErrInternal
	}
	if exists {
		return account.Account{}, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return account.Account{}, ErrInternal
	}

	acct, prof := account.NewWithProfile(username, email, string(hash))
	if err := s.accounts.CreateWithProfile(ctx, acct, prof); err != nil {
		exists, exErr := s.accounts.ExistsByEmailOrUsername(ctx, email, username)
		if exErr == nil && exists {
			return account.Account{}, ErrAlreadyRegistered
		}
		return account.Account{}, ErrInternal
	}

	return sanitize(acct), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (account.Account, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return account.Account{}, ErrInvalidCredentials
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrInvalidCredentials
		}
		return account.Account{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)); err != nil {
		return account.Account{}, ErrInvalidCredentials
	}
	if !acct.Active {
		return account.Account{}, ErrAccountInactive
	}

	return sanitize(acct), nil
}

// RequestPasswordReset issues an opaque single-use token and mails a reset
// link. The token lives in the cache for resetTokenTTL.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return err
		}
		return ErrInternal
	}

	token, err := newResetToken()
	if err != nil {
		return ErrInternal
	}
	if err := s.tokens.SetString(ctx, resetKeyPrefix+token, acct.ID.String(), resetTokenTTL); err != nil {
		return ErrInternal
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/password-reset/confirm?token=%s", strings.TrimRight(s.baseURL, "/"), token)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>We received a request to reset your password. Follow the link below to choose a new one:</p><p><a href=%q>%s</a></p><p>The link expires in 30 minutes. If you did not request this, ignore this e-mail.</p>",
		acct.Username, resetURL, resetURL,
	)
	if err := s.mailer.Send("Password Reset Request", acct.Email, body); err != nil {
		if s.logger != nil {
			s.logger.Printf("password reset: mail send failed account_id=%s err=%v", acct.ID, err)
		}
		return ErrInternal
	}
	return nil
}

// ConfirmPasswordReset trades a valid token for a password change and burns
// the token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}
	if !isValidPassword(newPassword) {
		return ErrInvalidInput
	}

	idStr, found, err := s.tokens.GetString(ctx, resetKeyPrefix+token)
	if err != nil {
		return ErrInternal
	}
	if !found {
		return ErrResetTokenInvalid
	}
	accountID, err := uuid.Parse(idStr)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, string(hash)); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return ErrInternal
	}

	if err := s.tokens.Delete(ctx, resetKeyPrefix+token); err != nil && s.logger != nil {
		s.logger.Printf("password reset: token delete failed err=%v", err)
	}
	return nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}

func sanitize(acct account.Account) account.Account {
	acct.PasswordHash = ""
	return acct
}
