package profile

import (
	"reflect"
	"testing"

	"blog-api/internal/domain/account"
	"blog-api/internal/projection"

	"github.com/google/uuid"
)

func projectionFixture() (account.Account, account.Profile) {
	acct := account.Account{
		ID:        uuid.New(),
		Username:  "jdoe",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Active:    true,
	}
	prof := account.Profile{
		ID:         uuid.New(),
		AccountID:  acct.ID,
		Bio:        "coffee first",
		PictureURL: "https://cdn.example.com/profile/jane_doe_profile.png",
	}
	return acct, prof
}

func TestProjectAccount_EmbedsProfileProjection(t *testing.T) {
	acct, prof := projectionFixture()

	out := ProjectAccount(acct, prof, projection.Options{
		Fields: []string{"id", "username", "fullname"},
		Context: projection.Context{
			"requested_fields": []string{"profile"},
			"profile_fields":   []string{"bio", "profile_picture_url"},
		},
	})

	if got := out["fullname"]; got != "JaneDoe" {
		t.Fatalf("fullname = %v", got)
	}
	if _, ok := out["email"]; ok {
		t.Fatalf("email leaked past the allow-list")
	}

	nested, ok := out["profile"].(map[string]any)
	if !ok {
		t.Fatalf("profile not embedded: %v", out["profile"])
	}
	want := map[string]any{
		"bio":                 prof.Bio,
		"profile_picture_url": prof.PictureURL,
	}
	if !reflect.DeepEqual(nested, want) {
		t.Fatalf("nested profile = %v, want %v", nested, want)
	}
}

func TestProjectAccount_ProfileOnlyWhenRequested(t *testing.T) {
	acct, prof := projectionFixture()

	out := ProjectAccount(acct, prof, projection.Options{})
	if _, ok := out["profile"]; ok {
		t.Fatalf("profile embedded without being requested")
	}
	if got := out["username"]; got != "jdoe" {
		t.Fatalf("username = %v", got)
	}
}

func TestProjectAccount_NestedContextIsIndependent(t *testing.T) {
	acct, prof := projectionFixture()

	// The child's requested_fields live under profile_context and must not
	// bleed into, or read from, the parent's.
	out := ProjectAccount(acct, prof, projection.Options{
		Fields: []string{"id"},
		Context: projection.Context{
			"requested_fields": []string{"profile"},
			"profile_fields":   []string{"bio", "first_name"},
			"profile_context":  projection.Context{"requested_fields": []string{"first_name"}},
		},
	})

	if len(out) != 2 {
		t.Fatalf("parent fields = %v, want id and profile only", out)
	}

	nested, ok := out["profile"].(map[string]any)
	if !ok {
		t.Fatalf("profile not embedded: %v", out["profile"])
	}
	if got := nested["first_name"]; got != "Jane" {
		t.Fatalf("nested first_name = %v", got)
	}
	if _, ok := nested["last_name"]; ok {
		t.Fatalf("last_name surfaced without a nested request for it")
	}
	if got := nested["bio"]; got != prof.Bio {
		t.Fatalf("nested bio = %v", got)
	}
}
