package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"blog-api/internal/domain/account"

	"github.com/google/uuid"
)

type fakeRepo struct {
	accounts map[uuid.UUID]account.Account
	profiles map[uuid.UUID]account.Profile

	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts: make(map[uuid.UUID]account.Account),
		profiles: make(map[uuid.UUID]account.Profile),
	}
}

func (f *fakeRepo) CreateWithProfile(_ context.Context, acct account.Account, prof account.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.accounts[acct.ID] = acct
	f.profiles[prof.ID] = prof
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (account.Account, error) {
	acct, ok := f.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return acct, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, acct := range f.accounts {
		if acct.Email == email {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (f *fakeRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, acct := range f.accounts {
		if acct.Email == email || acct.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Update(_ context.Context, acct account.Account) error {
	if _, ok := f.accounts[acct.ID]; !ok {
		return account.ErrNotFound
	}
	f.accounts[acct.ID] = acct
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	acct, ok := f.accounts[id]
	if !ok {
		return account.ErrNotFound
	}
	acct.PasswordHash = hash
	f.accounts[id] = acct
	return nil
}

type fakeTokens struct {
	values map[string]string
	ttls   map[string]time.Duration

	setErr error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeTokens) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeTokens) SetString(_ context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeTokens) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeMailer struct {
	sendErr error

	subjects []string
	tos      []string
	bodies   []string
}

func (f *fakeMailer) Send(subject, to, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.subjects = append(f.subjects, subject)
	f.tos = append(f.tos, to)
	f.bodies = append(f.bodies, htmlBody)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeTokens, *fakeMailer) {
	repo := newFakeRepo()
	tokens := newFakeTokens()
	mailer := &fakeMailer{}
	return NewService(repo, tokens, mailer, "https://blog.example.com", nil), repo, tokens, mailer
}

func seedAccount(repo *fakeRepo, password string, active bool) account.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	acct := account.Account{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Active:       active,
	}
	repo.accounts[acct.ID] = acct
	return acct
}

func TestRegister_CreatesInactiveAccountWithProfile(t *testing.T) {
	svc, repo, _, _ := newTestService()

	acct, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe",
		Email:    "Jane@Example.com",
		Password: "hunter2secret",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if acct.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %q", acct.Email)
	}
	if acct.Active {
		t.Fatalf("new account must start inactive")
	}
	if acct.PasswordHash != "" {
		t.Fatalf("password hash leaked out of the usecase")
	}

	if len(repo.profiles) != 1 {
		t.Fatalf("expected profile created alongside account, got %d", len(repo.profiles))
	}
	for _, prof := range repo.profiles {
		if prof.AccountID != acct.ID {
			t.Fatalf("profile not linked to account")
		}
	}

	stored, err := repo.GetByID(context.Background(), acct.ID)
	if err != nil {
		t.Fatalf("stored account: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2secret")) != nil {
		t.Fatalf("stored hash does not match password")
	}
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedAccount(repo, "hunter2secret", true)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "someoneelse",
		Email:    "jane@example.com",
		Password: "hunter2secret",
	})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate email: got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "jdoe",
		Email:    "other@example.com",
		Password: "hunter2secret",
	})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate username: got %v", err)
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "jdoe",
		Email:    "jane@example.com",
		Password: "short",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedAccount(repo, "hunter2secret", true)

	_, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "nope"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedAccount(repo, "hunter2secret", false)

	_, err := svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "hunter2secret"})
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("got %v", err)
	}
}

func TestRequestPasswordReset_StoresTokenAndMailsLink(t *testing.T) {
	svc, repo, tokens, mailer := newTestService()
	acct := seedAccount(repo, "hunter2secret", true)

	if err := svc.RequestPasswordReset(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(mailer.tos) != 1 || mailer.tos[0] != acct.Email {
		t.Fatalf("mail recipients: %v", mailer.tos)
	}
	if mailer.subjects[0] != "Password Reset Request" {
		t.Fatalf("subject: %q", mailer.subjects[0])
	}

	var token string
	for key, val := range tokens.values {
		if !strings.HasPrefix(key, "pwreset:") {
			t.Fatalf("unexpected key %q", key)
		}
		if val != acct.ID.String() {
			t.Fatalf("token maps to %q, want account id", val)
		}
		token = strings.TrimPrefix(key, "pwreset:")
	}
	if token == "" {
		t.Fatalf("no reset token stored")
	}
	if !strings.Contains(mailer.bodies[0], token) {
		t.Fatalf("mail body does not carry the reset token")
	}
	if got := tokens.ttls["pwreset:"+token]; got != resetTokenTTL {
		t.Fatalf("token ttl = %v, want %v", got, resetTokenTTL)
	}
}

func TestRequestPasswordReset_TokenStoreUnavailable(t *testing.T) {
	svc, repo, tokens, mailer := newTestService()
	seedAccount(repo, "hunter2secret", true)
	tokens.setErr = errors.New("redis unavailable")

	err := svc.RequestPasswordReset(context.Background(), "jane@example.com")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("got %v", err)
	}
	if len(mailer.tos) != 0 {
		t.Fatalf("mailed a link whose token was never stored")
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, tokens, mailer := newTestService()

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	if !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if len(tokens.values) != 0 || len(mailer.tos) != 0 {
		t.Fatalf("side effects for unknown email")
	}
}

func TestConfirmPasswordReset(t *testing.T) {
	svc, repo, tokens, _ := newTestService()
	acct := seedAccount(repo, "hunter2secret", true)
	tokens.values["pwreset:goodtoken"] = acct.ID.String()

	if err := svc.ConfirmPasswordReset(context.Background(), "goodtoken", "newsecret9"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), acct.ID)
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newsecret9")) != nil {
		t.Fatalf("password not updated")
	}
	if _, ok := tokens.values["pwreset:goodtoken"]; ok {
		t.Fatalf("token not burned after use")
	}

	if err := svc.ConfirmPasswordReset(context.Background(), "goodtoken", "another999"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("reused token: got %v", err)
	}
}

func TestConfirmPasswordReset_BadToken(t *testing.T) {
	svc, _, _, _ := newTestService()

	if err := svc.ConfirmPasswordReset(context.Background(), "bogus", "newsecret9"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("got %v", err)
	}
}
